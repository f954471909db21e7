package service

import (
	"context"
	"time"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

const maxMessageLength = 4000

// MessageService handles message CRUD inside subchannels. Permission checks
// resolve against the parent channel.
type MessageService struct {
	subchannels database.SubchannelRepository
	messages    database.MessageRepository
	snowflake   *snowflake.Generator
	gateway     gateway.Dispatcher
	perms       *PermissionChecker
}

// NewMessageService creates a MessageService.
func NewMessageService(
	subchannels database.SubchannelRepository,
	messages database.MessageRepository,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *MessageService {
	return &MessageService{
		subchannels: subchannels,
		messages:    messages,
		snowflake:   sf,
		gateway:     gw,
		perms:       perms,
	}
}

// subchannel resolves a subchannel and its parent channel ID.
func (s *MessageService) subchannel(ctx context.Context, subchannelID int64) (*models.Subchannel, error) {
	sub, err := s.subchannels.GetByID(ctx, subchannelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if sub == nil {
		return nil, NotFound("NOT_FOUND", "subchannel not found")
	}
	return sub, nil
}

// Send posts a message. Requires SEND_MESSAGES; attaching a file additionally
// requires ATTACH_FILES.
func (s *MessageService) Send(ctx context.Context, subchannelID, authorID int64, content string, attachmentURL *string) (*models.Message, error) {
	sub, err := s.subchannel(ctx, subchannelID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Require(ctx, sub.ChannelID, authorID, permissions.PermSendMessages); err != nil {
		return nil, err
	}
	if attachmentURL != nil {
		if err := s.perms.Require(ctx, sub.ChannelID, authorID, permissions.PermAttachFiles); err != nil {
			return nil, err
		}
	}
	if content == "" && attachmentURL == nil {
		return nil, Validation("EMPTY_MESSAGE", "message must have content or an attachment")
	}
	if len(content) > maxMessageLength {
		return nil, Validation("MESSAGE_TOO_LONG", "message content exceeds the maximum length")
	}

	msg := &models.Message{
		ID:            s.snowflake.Generate().Int64(),
		SubchannelID:  subchannelID,
		AuthorID:      authorID,
		Content:       content,
		AttachmentURL: attachmentURL,
		CreatedAt:     time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(sub.ChannelID, gateway.EventMessageCreate, msg)
	return msg, nil
}

// List returns messages before the given cursor, newest first. Requires
// VIEW_CHANNELS.
func (s *MessageService) List(ctx context.Context, subchannelID, userID int64, before *int64, limit int) ([]models.MessageWithAuthor, error) {
	sub, err := s.subchannel(ctx, subchannelID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Require(ctx, sub.ChannelID, userID, permissions.PermViewChannels); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	msgs, err := s.messages.GetBySubchannelID(ctx, subchannelID, before, limit)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if msgs == nil {
		msgs = []models.MessageWithAuthor{}
	}
	return msgs, nil
}

// Edit changes a message's content. Only the author may edit; moderators
// delete instead.
func (s *MessageService) Edit(ctx context.Context, messageID, userID int64, content string) (*models.Message, error) {
	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if existing == nil {
		return nil, NotFound("NOT_FOUND", "message not found")
	}
	sub, err := s.subchannel(ctx, existing.SubchannelID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.RequireMember(ctx, sub.ChannelID, userID); err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, Forbidden("NOT_AUTHOR", "only the author can edit a message")
	}
	if content == "" || len(content) > maxMessageLength {
		return nil, Validation("INVALID_CONTENT", "message content must be 1-4000 characters")
	}

	now := time.Now()
	msg := existing.Message
	msg.Content = content
	msg.EditedAt = &now
	if err := s.messages.Update(ctx, &msg); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(sub.ChannelID, gateway.EventMessageUpdate, msg)
	return &msg, nil
}

// Delete removes a message. Allowed for the author, or anyone holding
// MANAGE_MESSAGES in the channel.
func (s *MessageService) Delete(ctx context.Context, messageID, userID int64) error {
	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if existing == nil {
		return NotFound("NOT_FOUND", "message not found")
	}
	sub, err := s.subchannel(ctx, existing.SubchannelID)
	if err != nil {
		return err
	}

	if existing.AuthorID != userID {
		if err := s.perms.Require(ctx, sub.ChannelID, userID, permissions.PermManageMessages); err != nil {
			return err
		}
	} else if err := s.perms.RequireMember(ctx, sub.ChannelID, userID); err != nil {
		return err
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(sub.ChannelID, gateway.EventMessageDelete, map[string]any{
		"id":            messageID,
		"subchannel_id": existing.SubchannelID,
	})
	return nil
}

// SetPinned pins or unpins a message. Requires PIN_MESSAGES.
func (s *MessageService) SetPinned(ctx context.Context, messageID, userID int64, pinned bool) error {
	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if existing == nil {
		return NotFound("NOT_FOUND", "message not found")
	}
	sub, err := s.subchannel(ctx, existing.SubchannelID)
	if err != nil {
		return err
	}
	if err := s.perms.Require(ctx, sub.ChannelID, userID, permissions.PermPinMessages); err != nil {
		return err
	}

	if err := s.messages.SetPinned(ctx, messageID, pinned); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(sub.ChannelID, gateway.EventMessageUpdate, map[string]any{
		"id":            messageID,
		"subchannel_id": existing.SubchannelID,
		"pinned":        pinned,
	})
	return nil
}
