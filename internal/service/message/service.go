package message

import (
	"context"
	"strings"
	"time"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/db"
	svcErr "github.com/oggyb/swipe-api/internal/errors"
	"github.com/oggyb/swipe-api/internal/repository"
	"github.com/oggyb/swipe-api/internal/service/match"
)

// MaxContentLength caps a single message body.
const MaxContentLength = 2000

// View is a message as returned to participants.
type View struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"matchId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toView(m *db.Message) View {
	return View{
		ID:         m.ID,
		MatchID:    m.MatchID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

// Service lets the two participants of a match talk to each other.
type Service struct {
	appCtx    *app.AppContext
	messages  *repository.MessageRepository
	matchRepo *repository.MatchRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		messages:  repository.NewMessageRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// Send stores a message from senderID to the other participant of matchID.
//
// Behavior:
//   - Content is trimmed; blank content is rejected.
//   - Only participants may send (403), unknown matches are 404.
func (s *Service) Send(ctx context.Context, senderID, matchID, content string) (*View, error) {
	if matchID == "" || content == "" {
		return nil, svcErr.InvalidArgument("Missing matchId or content")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, svcErr.InvalidArgument("Message content cannot be empty")
	}
	if len([]rune(content)) > MaxContentLength {
		return nil, svcErr.InvalidArgument("Message content is too long")
	}

	m, err := match.ForParticipant(ctx, s.matchRepo, matchID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &db.Message{
		MatchID:    m.ID,
		SenderID:   senderID,
		ReceiverID: m.Other(senderID),
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.appCtx.Logger.Error("Create message failed", "match", matchID, "err", err)
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("message sent", "match", m.ID, "sender", senderID)
	v := toView(msg)
	return &v, nil
}

// List returns the conversation of matchID, oldest first.
func (s *Service) List(ctx context.Context, userID, matchID string) ([]View, error) {
	if _, err := match.ForParticipant(ctx, s.matchRepo, matchID, userID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByMatch(ctx, matchID)
	if err != nil {
		s.appCtx.Logger.Error("ListByMatch failed", "match", matchID, "err", err)
		return nil, svcErr.Map(err)
	}

	out := make([]View, 0, len(msgs))
	for i := range msgs {
		out = append(out, toView(&msgs[i]))
	}
	return out, nil
}

// MarkRead flags the messages addressed to userID in matchID as read and
// returns how many changed.
func (s *Service) MarkRead(ctx context.Context, userID, matchID string) (int64, error) {
	if _, err := match.ForParticipant(ctx, s.matchRepo, matchID, userID); err != nil {
		return 0, err
	}

	n, err := s.messages.MarkRead(ctx, matchID, userID)
	if err != nil {
		s.appCtx.Logger.Error("MarkRead failed", "match", matchID, "err", err)
		return 0, svcErr.Map(err)
	}
	return n, nil
}
