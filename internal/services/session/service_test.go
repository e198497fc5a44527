package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sanghyxuk/number-baseball/internal/dependencies/mocks"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateSession() {
	s.random.QueueString("abcd1234")

	session, err := s.service.Create(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.SessionID("session-abcd1234"), session.ID)
	s.Equal("Alice", session.Nickname)
	s.Equal(s.clock.Now(), session.CreatedAt)

	retrieved, err := s.service.Get(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
}

func (s *ServiceSuite) TestCreateSessionEmptyNickname() {
	s.random.QueueString("abcd1234")

	session, err := s.service.Create(s.ctx, "")
	s.Require().NoError(err)
	s.Empty(session.Nickname)
	s.Equal(DefaultNickname, s.service.Nickname(s.ctx, session.ID))
}

func (s *ServiceSuite) TestGetUnknownSession() {
	_, err := s.service.Get(s.ctx, "session-missing1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestIsValid() {
	s.random.QueueString("abcd1234")
	session, err := s.service.Create(s.ctx, "Alice")
	s.Require().NoError(err)

	s.True(s.service.IsValid(s.ctx, session.ID))
	s.False(s.service.IsValid(s.ctx, "session-missing1"))
}

func (s *ServiceSuite) TestRemove() {
	s.random.QueueString("abcd1234")
	session, err := s.service.Create(s.ctx, "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Remove(s.ctx, session.ID))
	s.False(s.service.IsValid(s.ctx, session.ID))

	// Removing again is a no-op
	s.Require().NoError(s.service.Remove(s.ctx, session.ID))
}

func (s *ServiceSuite) TestNicknameFallsBackForUnknownSession() {
	s.Equal(DefaultNickname, s.service.Nickname(s.ctx, "session-missing1"))
}

func (s *ServiceSuite) TestActiveCount() {
	n, err := s.service.ActiveCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, n)

	s.random.QueueString("aaaa1111", "bbbb2222")
	_, err = s.service.Create(s.ctx, "Alice")
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, "Bob")
	s.Require().NoError(err)

	n, err = s.service.ActiveCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}
