package chat

import (
	"chat-channels/errors"
	goerrors "errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PostMessageCommand is the insert intent produced by a send.
// ID is generated by the sender so that a retried insert stays idempotent.
type PostMessageCommand struct {
	ID        MessageID `validate:"required"`
	ChannelID ChannelID `validate:"required"`
	UserID    UserID    `validate:"required"`
	Content   string    `validate:"required"`
}

// NewPostMessageCommand trims content and rejects blank input before any
// store round trip happens.
func NewPostMessageCommand(id MessageID, channelID ChannelID, userID UserID, content string) (PostMessageCommand, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return PostMessageCommand{}, errors.ErrEmptyContent
	}
	return PostMessageCommand{
		ID:        id,
		ChannelID: channelID,
		UserID:    userID,
		Content:   trimmed,
	}, nil
}

// Validate checks the structural rules and the length limit in runes.
// A maxContentLength of zero disables the length check.
func (c PostMessageCommand) Validate(maxContentLength int) error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if goerrors.As(err, &validationErrors) {
			for _, fe := range validationErrors {
				if fe.Field() == "Content" {
					return errors.ErrEmptyContent
				}
			}
		}
		return err
	}
	if maxContentLength > 0 {
		if err := validate.Var(c.Content, "max="+strconv.Itoa(maxContentLength)); err != nil {
			return errors.ErrContentTooLong
		}
	}
	return nil
}
