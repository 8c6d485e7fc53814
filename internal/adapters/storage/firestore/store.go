// Package firestore implements the event log and subscription store on
// Cloud Firestore: a `chats` collection scanned by userId with in-process
// filtering (no composite indexes required) and a `subscriptions`
// collection keyed one-to-one by userId.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lunaapp/luna-backend/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) chats() *firestore.CollectionRef {
	return s.client.Collection("chats")
}

func (s *Store) subscriptionDoc(id domain.Identity) *firestore.DocumentRef {
	return s.client.Collection("subscriptions").Doc(string(id))
}

type chatDoc struct {
	UserID  string `firestore:"userId"`
	Persona string `firestore:"persona"`
	Message string `firestore:"message"`
	Reply   string `firestore:"reply"`
	// serverTimestamp: Firestore stamps the write, the backend never
	// supplies a client clock for quota windows.
	Timestamp time.Time `firestore:"timestamp,serverTimestamp"`
}

type subscriptionDoc struct {
	SubscriptionID string    `firestore:"subscriptionId"`
	CustomerID     string    `firestore:"customerId"`
	Status         string    `firestore:"status"`
	PlanID         string    `firestore:"planId"`
	CreatedAt      time.Time `firestore:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt"`
}

// ─────────────────────────────────────────
// EventLog implementation
// ─────────────────────────────────────────

func (s *Store) Append(ctx context.Context, ev *domain.ChatEvent) error {
	doc := chatDoc{
		UserID:  string(ev.Identity),
		Persona: string(ev.Persona),
		Message: ev.UserMessage,
		Reply:   ev.ReplyText,
	}

	_, _, err := s.chats().Add(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore Append: %w", err)
	}
	return nil
}

func (s *Store) ListByIdentity(ctx context.Context, id domain.Identity) ([]*domain.ChatEvent, error) {
	iter := s.chats().Where("userId", "==", string(id)).Documents(ctx)
	defer iter.Stop()

	var out []*domain.ChatEvent
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListByIdentity: %w", err)
		}

		var doc chatDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode chatDoc: %w", err)
		}

		out = append(out, &domain.ChatEvent{
			ID:          domain.EventID(snap.Ref.ID),
			Identity:    domain.Identity(doc.UserID),
			Persona:     domain.Persona(doc.Persona),
			UserMessage: doc.Message,
			ReplyText:   doc.Reply,
			CreatedAt:   doc.Timestamp,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// SubscriptionStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, id domain.Identity) (*domain.Subscription, error) {
	snap, err := s.subscriptionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("firestore Get subscription: %w", err)
	}

	var doc subscriptionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode subscriptionDoc: %w", err)
	}

	return &domain.Subscription{
		Identity:       id,
		SubscriptionID: doc.SubscriptionID,
		CustomerID:     doc.CustomerID,
		Status:         domain.SubscriptionStatus(doc.Status),
		PlanID:         doc.PlanID,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

func (s *Store) Upsert(ctx context.Context, sub *domain.Subscription) error {
	doc := map[string]interface{}{
		"subscriptionId": sub.SubscriptionID,
		"customerId":     sub.CustomerID,
		"status":         string(sub.Status),
		"planId":         sub.PlanID,
		"createdAt":      firestore.ServerTimestamp,
		"updatedAt":      firestore.ServerTimestamp,
	}

	_, err := s.subscriptionDoc(sub.Identity).Set(ctx, doc, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore Upsert subscription: %w", err)
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id domain.Identity, st domain.SubscriptionStatus) error {
	_, err := s.subscriptionDoc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrSubscriptionNotFound
		}
		return fmt.Errorf("firestore UpdateStatus: %w", err)
	}
	return nil
}

func (s *Store) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	iter := s.client.Collection("subscriptions").
		Where("subscriptionId", "==", subscriptionID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("firestore FindBySubscriptionID: %w", err)
	}

	var doc subscriptionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode subscriptionDoc: %w", err)
	}

	return &domain.Subscription{
		Identity:       domain.Identity(snap.Ref.ID),
		SubscriptionID: doc.SubscriptionID,
		CustomerID:     doc.CustomerID,
		Status:         domain.SubscriptionStatus(doc.Status),
		PlanID:         doc.PlanID,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}
