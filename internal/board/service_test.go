package board

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "fundbook/pkg/domain-errors"
	"fundbook/pkg/requestcontext"
)

// =============================================================================
// Board Service Test Suite
// =============================================================================
// Justification for unit tests: the board trims input, stamps entries with
// the request clock, formats view timestamps, and caps list lengths. All of
// that is orthogonal to transport and cheapest to pin here.

type BoardServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
}

func TestBoardServiceSuite(t *testing.T) {
	suite.Run(t, new(BoardServiceSuite))
}

func (s *BoardServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()

	var err error
	s.service, err = New(s.store)
	s.Require().NoError(err)
}

var boardTime = time.Date(2026, time.July, 9, 18, 30, 0, 0, time.UTC)

func (s *BoardServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), boardTime)
}

// =============================================================================
// Notice Tests
// =============================================================================

func (s *BoardServiceSuite) TestPostNotice() {
	s.Run("publishes trimmed content stamped with the request clock", func() {
		notice, err := s.service.PostNotice(s.ctx(), "  distribution scheduled  ")
		s.Require().NoError(err)
		s.Equal("distribution scheduled", notice.Content)
		s.Equal(boardTime, notice.PublishTime)
		s.NotZero(notice.ID)
	})

	s.Run("rejects empty content", func() {
		_, err := s.service.PostNotice(s.ctx(), "   ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *BoardServiceSuite) TestDeleteNotice() {
	notice, err := s.service.PostNotice(s.ctx(), "short lived")
	s.Require().NoError(err)

	s.Run("deletes an existing notice", func() {
		s.Require().NoError(s.service.DeleteNotice(s.ctx(), notice.ID))

		views, err := s.service.RecentNotices(s.ctx())
		s.Require().NoError(err)
		s.Empty(views)
	})

	s.Run("deleting it again returns not found", func() {
		err := s.service.DeleteNotice(s.ctx(), notice.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *BoardServiceSuite) TestRecentNotices() {
	for i := 1; i <= 7; i++ {
		_, err := s.service.PostNotice(s.ctx(), fmt.Sprintf("notice %d", i))
		s.Require().NoError(err)
	}

	views, err := s.service.RecentNotices(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(views, 5, "list is capped")
	s.Equal("notice 7", views[0].Content, "newest first")
	s.Equal("notice 3", views[4].Content)
	s.Equal("2026-07-09 18:30", views[0].PublishTime)
}

// =============================================================================
// Message Tests
// =============================================================================

func (s *BoardServiceSuite) TestPostMessage() {
	s.Run("records the message dated to the day", func() {
		msg, err := s.service.PostMessage(s.ctx(), "when is the next payout?")
		s.Require().NoError(err)
		s.Equal("when is the next payout?", msg.Content)
		s.Equal(time.Date(2026, time.July, 9, 0, 0, 0, 0, time.UTC), msg.CreatedDate)
		s.Nil(msg.Reply)
	})

	s.Run("rejects empty content", func() {
		_, err := s.service.PostMessage(s.ctx(), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *BoardServiceSuite) TestReply() {
	msg, err := s.service.PostMessage(s.ctx(), "question")
	s.Require().NoError(err)

	s.Run("attaches the answer", func() {
		s.Require().NoError(s.service.Reply(s.ctx(), msg.ID, "next month"))

		views, err := s.service.RecentMessages(s.ctx())
		s.Require().NoError(err)
		s.Require().Len(views, 1)
		s.Require().NotNil(views[0].Reply)
		s.Equal("next month", *views[0].Reply)
	})

	s.Run("replying again overwrites the previous answer", func() {
		s.Require().NoError(s.service.Reply(s.ctx(), msg.ID, "actually next week"))

		views, err := s.service.RecentMessages(s.ctx())
		s.Require().NoError(err)
		s.Equal("actually next week", *views[0].Reply)
	})

	s.Run("rejects empty reply", func() {
		err := s.service.Reply(s.ctx(), msg.ID, "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("missing message returns not found", func() {
		err := s.service.Reply(s.ctx(), 9999, "to nobody")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *BoardServiceSuite) TestRecentMessages() {
	for i := 1; i <= 12; i++ {
		_, err := s.service.PostMessage(s.ctx(), fmt.Sprintf("message %d", i))
		s.Require().NoError(err)
	}

	views, err := s.service.RecentMessages(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(views, 10, "list is capped")
	s.Equal("message 12", views[0].Content, "newest first")
	s.Equal("message 3", views[9].Content)
	s.Equal("2026-07-09", views[0].CreatedDate)
}
