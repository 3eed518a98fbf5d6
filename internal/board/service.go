package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/platform/audit"
	"fundbook/pkg/platform/sentinel"
	"fundbook/pkg/requestcontext"
)

const (
	noticeListLimit  = 5
	messageListLimit = 10
)

// Service handles the announcement board and the LP/GP message thread.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("board store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PostNotice publishes a GP announcement stamped with the current time.
func (s *Service) PostNotice(ctx context.Context, content string) (Notice, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Notice{}, dErrors.New(dErrors.CodeBadRequest, "notice content is required")
	}

	notice, err := s.store.InsertNotice(ctx, Notice{
		PublishTime: requestcontext.Now(ctx),
		Content:     content,
	})
	if err != nil {
		return Notice{}, fmt.Errorf("insert notice: %w", err)
	}

	s.logger.InfoContext(ctx, "notice posted", slog.Int64("notice_id", notice.ID))
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionNoticePosted,
		Subject: strconv.FormatInt(notice.ID, 10),
	})
	return notice, nil
}

// DeleteNotice retracts a published notice.
func (s *Service) DeleteNotice(ctx context.Context, id int64) error {
	if err := s.store.DeleteNotice(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notice not found")
		}
		return fmt.Errorf("delete notice: %w", err)
	}

	s.logger.InfoContext(ctx, "notice deleted", slog.Int64("notice_id", id))
	audit.Emit(ctx, s.auditPublisher, audit.Event{
		Actor:   requestcontext.Role(ctx),
		Action:  audit.ActionNoticeDeleted,
		Subject: strconv.FormatInt(id, 10),
	})
	return nil
}

// RecentNotices returns the latest announcements, newest first.
func (s *Service) RecentNotices(ctx context.Context) ([]NoticeView, error) {
	notices, err := s.store.RecentNotices(ctx, noticeListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	views := make([]NoticeView, 0, len(notices))
	for _, n := range notices {
		views = append(views, n.View())
	}
	return views, nil
}

// PostMessage records a beneficiary message dated today.
func (s *Service) PostMessage(ctx context.Context, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, dErrors.New(dErrors.CodeBadRequest, "message content is required")
	}

	now := requestcontext.Now(ctx)
	msg, err := s.store.InsertMessage(ctx, Message{
		CreatedDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Content:     content,
	})
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}

	s.logger.InfoContext(ctx, "message posted", slog.Int64("message_id", msg.ID))
	return msg, nil
}

// Reply attaches the GP's answer to a message. Replying to a message that
// already has an answer overwrites it.
func (s *Service) Reply(ctx context.Context, id int64, reply string) error {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return dErrors.New(dErrors.CodeBadRequest, "reply content is required")
	}

	if err := s.store.SetReply(ctx, id, reply); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "message not found")
		}
		return fmt.Errorf("set reply: %w", err)
	}

	s.logger.InfoContext(ctx, "message replied", slog.Int64("message_id", id))
	return nil
}

// RecentMessages returns the latest thread entries, newest first.
func (s *Service) RecentMessages(ctx context.Context) ([]MessageView, error) {
	msgs, err := s.store.RecentMessages(ctx, messageListLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, m.View())
	}
	return views, nil
}
