package server

import (
	"encoding/json"

	"portfolio/internal/models"
	"portfolio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// skillForm accepts multipart, urlencoded and JSON bodies.
type skillForm struct {
	Name              string      `json:"name" form:"name"`
	Proficiency       string      `json:"proficiency" form:"proficiency"`
	Description       string      `json:"description" form:"description"`
	YearsOfExperience json.Number `json:"yearsOfExperience" form:"yearsOfExperience"`
	Category          string      `json:"category" form:"category"`
}

func (s *Server) skillInput(c *fiber.Ctx) (service.SkillInput, error) {
	var form skillForm
	if err := parseBody(c, &form); err != nil {
		return service.SkillInput{}, err
	}
	icon, err := formFile(c, "skillIcon", s.config.MaxFileUpload)
	if err != nil {
		return service.SkillInput{}, err
	}
	return service.SkillInput{
		Name:              form.Name,
		Proficiency:       form.Proficiency,
		Description:       form.Description,
		YearsOfExperience: form.YearsOfExperience.String(),
		Category:          form.Category,
		Icon:              icon,
	}, nil
}

// AddSkill handles POST /api/v1/skill/add-skill
// @Summary Add a skill
// @Tags skills
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Router /skill/add-skill [post]
func (s *Server) AddSkill(c *fiber.Ctx) error {
	in, err := s.skillInput(c)
	if err != nil {
		return err
	}
	skill, err := s.skillService.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"skill":   skill,
	})
}

// GetSkills handles GET /api/v1/skill/all-skills
func (s *Server) GetSkills(c *fiber.Ctx) error {
	page, err := s.skillService.List(c.UserContext(), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"totalSkills": page.Total,
		"currentPage": page.CurrentPage,
		"totalPages":  page.TotalPages,
		"skills":      page.Items,
	})
}

// GetSkill handles GET /api/v1/skill/get-skill-by-id/:id
func (s *Server) GetSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	skill, err := s.skillService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"skill":   skill,
	})
}

// UpdateSkill handles PUT /api/v1/skill/update-skill/:id. Blank fields
// are left unchanged.
func (s *Server) UpdateSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	in, err := s.skillInput(c)
	if err != nil {
		return err
	}
	skill, err := s.skillService.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Skill updated successfully",
		"skill":   skill,
	})
}

// DeleteSkill handles DELETE /api/v1/skill/delete-skill/:id
func (s *Server) DeleteSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.skillService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Skill deleted successfully",
	})
}

type projectForm struct {
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	LiveLink     string `json:"liveLink" form:"liveLink"`
	RepoLink     string `json:"repoLink" form:"repoLink"`
	Technologies string `json:"technologies" form:"technologies"`
}

func (s *Server) projectInput(c *fiber.Ctx) (service.ProjectInput, error) {
	var form projectForm
	if err := parseBody(c, &form); err != nil {
		return service.ProjectInput{}, err
	}
	icon, err := formFile(c, "projectIcon", s.config.MaxFileUpload)
	if err != nil {
		return service.ProjectInput{}, err
	}
	return service.ProjectInput{
		Title:        form.Title,
		Description:  form.Description,
		LiveLink:     form.LiveLink,
		RepoLink:     form.RepoLink,
		Technologies: form.Technologies,
		Icon:         icon,
	}, nil
}

// AddProject handles POST /api/v1/project/add-project
// @Summary Add a project
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Router /project/add-project [post]
func (s *Server) AddProject(c *fiber.Ctx) error {
	in, err := s.projectInput(c)
	if err != nil {
		return err
	}
	project, err := s.projectService.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"project": project,
	})
}

// GetProjects handles GET /api/v1/project/get-projects
func (s *Server) GetProjects(c *fiber.Ctx) error {
	page, err := s.projectService.List(c.UserContext(), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"totalProjects": page.Total,
		"currentPage":   page.CurrentPage,
		"totalPages":    page.TotalPages,
		"projects":      page.Items,
	})
}

// GetProject handles GET /api/v1/project/get-project/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	project, err := s.projectService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"project": project,
	})
}

// UpdateProject handles PUT /api/v1/project/update-project/:id
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	in, err := s.projectInput(c)
	if err != nil {
		return err
	}
	project, err := s.projectService.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project updated successfully",
		"project": project,
	})
}

// DeleteProject handles DELETE /api/v1/project/delete-project/:id
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.projectService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project deleted successfully",
	})
}

// SendMessage handles POST /api/v1/message/send-message
// @Summary Send a contact message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body service.SendMessageInput true "Message"
// @Router /message/send-message [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var in service.SendMessageInput
	if err := c.BodyParser(&in); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	msg, err := s.messageService.Send(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": msg,
	})
}

// GetMessages handles GET /api/v1/message/all-messages[/:page/:limit]
func (s *Server) GetMessages(c *fiber.Ctx) error {
	page, err := s.messageService.List(c.UserContext(), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"totalMessage": page.Total,
		"currentPage":  page.CurrentPage,
		"totalPages":   page.TotalPages,
		"messages":     page.Items,
	})
}

// GetMessage handles GET /api/v1/message/get-message/:id
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	msg, err := s.messageService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": msg,
	})
}

// MarkMessageRead handles PUT /api/v1/message/mark-read/:id
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	msg, err := s.messageService.MarkRead(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": msg,
	})
}

// DeleteAllMessages handles DELETE /api/v1/message/delete-all-messages
func (s *Server) DeleteAllMessages(c *fiber.Ctx) error {
	deleted, err := s.messageService.DeleteAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All messages have been deleted",
		"deleted": deleted,
	})
}

// DeleteMessage handles DELETE /api/v1/message/delete-message/:id
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.messageService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message has been deleted",
	})
}
