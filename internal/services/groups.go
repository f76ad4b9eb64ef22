package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"startupconnect-backend/internal/docstore"
	"startupconnect-backend/internal/models"
)

// GroupService manages sector messaging groups and their messages.
type GroupService struct {
	store docstore.Store
}

// NewGroupService creates a new group service.
func NewGroupService(store docstore.Store) *GroupService {
	return &GroupService{store: store}
}

// JoinSector adds the user to the sector's group, creating the group the
// first time the sector needs one. Joining twice is a no-op.
func (s *GroupService) JoinSector(ctx context.Context, userID, sector string) (*models.Group, error) {
	recs, err := s.store.List(ctx, docstore.Groups, func(rec docstore.Record) bool {
		t, _ := rec["type"].(string)
		sec, _ := rec["sector"].(string)
		return t == "sector" && sec == sector
	})
	if err != nil {
		return nil, err
	}

	var group models.Group
	if len(recs) == 0 {
		rec, err := docstore.Encode(models.Group{
			Name:      "Secteur : " + sector,
			Type:      "sector",
			Sector:    sector,
			Members:   []string{},
			CreatedAt: time.Now().UnixMilli(),
		})
		if err != nil {
			return nil, err
		}
		inserted, err := s.store.Insert(ctx, docstore.Groups, rec)
		if err != nil {
			return nil, fmt.Errorf("failed to create sector group: %w", err)
		}
		if err := docstore.Decode(inserted, &group); err != nil {
			return nil, err
		}
	} else if err := docstore.Decode(recs[0], &group); err != nil {
		return nil, err
	}

	for _, member := range group.Members {
		if member == userID {
			return &group, nil
		}
	}

	group.Members = append(group.Members, userID)
	if _, err := s.store.Update(ctx, docstore.Groups, group.ID, docstore.Record{"members": group.Members}); err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}
	return &group, nil
}

// GroupsForUser lists the groups the user is a member of.
func (s *GroupService) GroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	recs, err := s.store.List(ctx, docstore.Groups, nil)
	if err != nil {
		return nil, err
	}
	groups, err := decodeAll[models.Group](recs)
	if err != nil {
		return nil, err
	}

	out := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		for _, member := range g.Members {
			if member == userID {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

// Messages returns the group's messages ordered by creation time.
func (s *GroupService) Messages(ctx context.Context, groupID string) ([]models.Message, error) {
	recs, err := s.store.List(ctx, docstore.Messages, func(rec docstore.Record) bool {
		g, _ := rec["group_id"].(string)
		return g == groupID
	})
	if err != nil {
		return nil, err
	}
	messages, err := decodeAll[models.Message](recs)
	if err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
	return messages, nil
}

// SendMessage posts a message to a group and touches the group's
// last-activity timestamp. The sender's display name is denormalized
// into the message.
func (s *GroupService) SendMessage(ctx context.Context, groupID string, sender *models.User, content string) (*models.Message, error) {
	if _, err := s.store.Get(ctx, docstore.Groups, groupID); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	rec, err := docstore.Encode(models.Message{
		GroupID:   groupID,
		UserID:    sender.ID,
		UserName:  sender.DisplayName,
		Content:   content,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.Insert(ctx, docstore.Messages, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if _, err := s.store.Update(ctx, docstore.Groups, groupID, docstore.Record{"last_activity": now}); err != nil {
		return nil, fmt.Errorf("failed to touch group activity: %w", err)
	}

	var msg models.Message
	if err := docstore.Decode(inserted, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
