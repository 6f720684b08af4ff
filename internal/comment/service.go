package comment

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shotbuilder/backend/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotAuthor    = errors.New("only the author can modify a comment")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Author identifies the signed-in user writing a comment.
type Author struct {
	Sub  string
	Name string
}

func (s *Service) List(ctx context.Context, clientID, entity, entityID string) ([]*Comment, error) {
	if !ValidEntity(entity) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByEntity(ctx, clientID, entity, entityID)
}

// Create stores the raw body and its extracted mention handles. Mentions are
// persisted separately so notification fan-out never re-parses bodies.
func (s *Service) Create(ctx context.Context, clientID string, author Author, entity, entityID, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" || !ValidEntity(entity) || entityID == "" {
		return nil, ErrInvalidInput
	}
	doc := bson.M{
		"entity":     entity,
		"entityId":   entityID,
		"authorSub":  author.Sub,
		"authorName": author.Name,
		"body":       body,
		"edited":     false,
	}
	if mentions := ExtractMentions(body); len(mentions) > 0 {
		doc["mentions"] = mentions
	}
	id, err := s.repo.CreateComment(ctx, clientID, doc)
	if err != nil {
		return nil, err
	}
	return s.repo.GetComment(ctx, clientID, id)
}

// Edit replaces the body. Only the original author may edit.
func (s *Service) Edit(ctx context.Context, clientID, id, authorSub, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return ErrInvalidInput
	}
	existing, err := s.repo.GetComment(ctx, clientID, id)
	if err != nil {
		return err
	}
	if existing.AuthorSub != authorSub {
		return ErrNotAuthor
	}
	patch := bson.M{
		"body":     body,
		"edited":   true,
		"mentions": ExtractMentions(body),
	}
	return s.repo.UpdateComment(ctx, clientID, id, patch)
}

// Delete soft-deletes. Authors may delete their own comments; admins and
// producers may delete anyone's.
func (s *Service) Delete(ctx context.Context, clientID, id, requesterSub string, canModerate bool) error {
	existing, err := s.repo.GetComment(ctx, clientID, id)
	if err != nil {
		return err
	}
	if existing.AuthorSub != requesterSub && !canModerate {
		return ErrNotAuthor
	}
	return s.repo.SoftDeleteComment(ctx, clientID, id)
}

func (s *Service) Watch(ctx context.Context, clientID, entity, entityID string) *store.Watch[*Comment] {
	return s.repo.WatchByEntity(ctx, clientID, entity, entityID)
}

// MentionedIn collects every comment on an entity that mentions handle,
// for notification fan-out.
func (s *Service) MentionedIn(ctx context.Context, clientID, entity, entityID, handle string) ([]*Comment, error) {
	all, err := s.List(ctx, clientID, entity, entityID)
	if err != nil {
		return nil, err
	}
	var out []*Comment
	for _, c := range all {
		for _, m := range c.Mentions {
			if m == handle {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

// --- shot requests ---

func (s *Service) ListRequests(ctx context.Context, clientID, shotID string) ([]*ShotRequest, error) {
	return s.repo.ListRequests(ctx, clientID, shotID)
}

func (s *Service) CreateRequest(ctx context.Context, clientID string, author Author, shotID, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" || shotID == "" {
		return "", ErrInvalidInput
	}
	return s.repo.CreateRequest(ctx, clientID, bson.M{
		"shotId":     shotID,
		"authorSub":  author.Sub,
		"authorName": author.Name,
		"body":       body,
		"resolved":   false,
	})
}

func (s *Service) SetRequestResolved(ctx context.Context, clientID, id string, resolved bool) error {
	return s.repo.UpdateRequest(ctx, clientID, id, bson.M{"resolved": resolved})
}
