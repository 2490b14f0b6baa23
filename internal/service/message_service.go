package service

import (
	"context"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/validation"
)

const maxMessageLen = 5000

type MessageService struct {
	repo repository.MessageRepository
}

type SendMessageInput struct {
	Sender      string `json:"sender"`
	SenderEmail string `json:"senderEmail"`
	Message     string `json:"message"`
}

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// Send stores a message from the public contact form.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	sender := strings.TrimSpace(in.Sender)
	email := models.NormalizeEmail(in.SenderEmail)
	body := strings.TrimSpace(in.Message)
	if sender == "" || email == "" || body == "" {
		return nil, models.NewValidationError("Please fill all fields")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(body) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}

	msg := &models.Message{Sender: sender, SenderEmail: email, Message: body}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns messages newest first.
func (s *MessageService) List(ctx context.Context, req PageRequest) (*PageResult[models.Message], error) {
	page, limit, offset := req.normalize(DefaultMessageLimit)
	res, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPageResult(res.Items, res.Total, page, limit), nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MessageService) MarkRead(ctx context.Context, id uint) (*models.Message, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *MessageService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *MessageService) DeleteAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}
