package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/util"
	"github.com/inkwell-app/inkwell-server/internal/validation"
)

// RelayService manages multi-author writing rooms.
type RelayService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewRelayService creates a new relay service.
func NewRelayService(st *store.Store, v *validation.Validator, log *logger.Logger) *RelayService {
	return &RelayService{
		store:     st,
		validator: v,
		logger:    log,
	}
}

// CreateRelayRequest contains new relay room data. Capacity zero means
// unlimited.
type CreateRelayRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=100"`
	Tags     []string `json:"tags" validate:"max=10"`
	Capacity int      `json:"capacity" validate:"gte=0,lte=100"`
}

// NoticeRequest contains a host announcement body.
type NoticeRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

// Create opens a new relay room. The host joins automatically.
func (s *RelayService) Create(ctx context.Context, hostID string, req CreateRelayRequest) (*domain.Relay, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	relayID, err := id.GenerateSortable("relay")
	if err != nil {
		return nil, fmt.Errorf("generate relay ID: %w", err)
	}

	now := time.Now()
	relay := &domain.Relay{
		ID:        relayID,
		Title:     req.Title,
		Tags:      util.NormalizeTags(req.Tags),
		HostID:    hostID,
		Capacity:  req.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	relay.AddMember(hostID)

	if err := s.store.Relays.Create(ctx, relayID, relay); err != nil {
		return nil, fmt.Errorf("create relay: %w", err)
	}

	s.logger.Info("relay created", "relay_id", relayID, "host_id", hostID, "capacity", req.Capacity)
	return relay, nil
}

// Get returns a relay room.
func (s *RelayService) Get(ctx context.Context, relayID string) (*domain.Relay, error) {
	relay, err := s.store.Relays.Get(ctx, relayID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("relay not found")
		}
		return nil, err
	}
	return relay, nil
}

// List returns one page of relay rooms in the given order.
func (s *RelayService) List(ctx context.Context, orderStr, cursor string) (*store.RelayPage, error) {
	order := store.FeedOrder(strings.ToUpper(strings.TrimSpace(orderStr)))
	if order == "" {
		order = store.OrderLatest
	}
	if !order.Valid() {
		return nil, apperrors.Validation("order must be LATEST or POPULAR")
	}
	return s.store.ListRelays(ctx, order, cursor)
}

// Join adds the user to a relay, subject to capacity.
func (s *RelayService) Join(ctx context.Context, relayID, userID string) (*domain.Relay, error) {
	relay, err := s.store.JoinRelay(ctx, relayID, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("relay not found")
		}
		return nil, err
	}
	return relay, nil
}

// Leave removes the user from a relay. Hosts cannot leave; they delete the
// room instead.
func (s *RelayService) Leave(ctx context.Context, relayID, userID string) error {
	return s.store.LeaveRelay(ctx, relayID, userID)
}

// Delete closes a relay room. Only the host may delete; articles written in
// the room survive with their relay reference cleared.
func (s *RelayService) Delete(ctx context.Context, actorID, relayID string) error {
	relay, err := s.Get(ctx, relayID)
	if err != nil {
		return err
	}
	if relay.HostID != actorID {
		return apperrors.Forbidden("only the host can delete a relay")
	}

	if err := s.store.DeleteRelay(ctx, relayID); err != nil {
		return err
	}

	s.logger.Info("relay deleted", "relay_id", relayID, "host_id", actorID)
	return nil
}

// AddNotice pins a host announcement to the relay.
func (s *RelayService) AddNotice(ctx context.Context, actorID, relayID string, req NoticeRequest) (*domain.Relay, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	relay, err := s.Get(ctx, relayID)
	if err != nil {
		return nil, err
	}
	if relay.HostID != actorID {
		return nil, apperrors.Forbidden("only the host can post notices")
	}

	noticeID, err := id.Generate("notice")
	if err != nil {
		return nil, fmt.Errorf("generate notice ID: %w", err)
	}

	return s.store.AddRelayNotice(ctx, relayID, domain.RelayNotice{
		ID:        noticeID,
		Body:      req.Body,
		CreatedAt: time.Now(),
	})
}

// RemoveNotice deletes a host announcement.
func (s *RelayService) RemoveNotice(ctx context.Context, actorID, relayID, noticeID string) error {
	relay, err := s.Get(ctx, relayID)
	if err != nil {
		return err
	}
	if relay.HostID != actorID {
		return apperrors.Forbidden("only the host can remove notices")
	}

	return s.store.RemoveRelayNotice(ctx, relayID, noticeID)
}
