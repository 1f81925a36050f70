// Copyright (c) Microsoft. All rights reserved.

package pipe

import "fmt"

// Role identifies the author of a [Message].
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleFunction  Role = "function"
)

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonFunctionCall  FinishReason = "function_call"
	FinishReasonContentFilter FinishReason = "content_filter"
)

// Message is a single role-tagged entry of a conversation sent to the
// completion service. Name is only meaningful for function-role messages,
// where it identifies the function that produced Content.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// Validate reports whether m can be sent as part of a conversation.
func (m Message) Validate() error {
	if m.Role == "" {
		return fmt.Errorf("%w: message has no role", ErrInvalidRequest)
	}
	if m.Role == RoleFunction && m.Name == "" {
		return fmt.Errorf("%w: function message has no name", ErrInvalidRequest)
	}
	return nil
}

// NewUserMessage creates a user-role [Message] from a text string.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant-role [Message] from a text string.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// NewSystemMessage creates a system-role [Message] from a text string.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewFunctionMessage creates a function-role [Message] carrying the result
// of the named function.
func NewFunctionMessage(name, result string) Message {
	return Message{Role: RoleFunction, Name: name, Content: result}
}

// ValidateConversation checks that a conversation is non-empty and that every
// message in it is well formed.
func ValidateConversation(conversation []Message) error {
	if len(conversation) == 0 {
		return fmt.Errorf("%w: empty conversation", ErrInvalidRequest)
	}
	for i, m := range conversation {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}
