package http

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/swipechat-server/internal/core"
	"github.com/vovakirdan/swipechat-server/internal/proto"
)

// isoMillis matches the ISO-8601 form browsers produce for Date values.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// inboundToCommand maps a client envelope to a hub command. When the envelope
// is answered directly (pong, validation error) reply is set instead.
func inboundToCommand(inbound proto.Inbound) (cmd *core.Command, reply *proto.Outbound) {
	switch inbound.Type {
	case proto.InboundTypeRegister:
		user, ok := decodeRegister(inbound.Data)
		if !ok {
			return nil, errorOutbound(core.ErrCodeBadRequest, "invalid register payload")
		}
		if user == "" {
			return nil, errorOutbound(core.ErrCodeBadRequest, "user is required")
		}
		return &core.Command{Kind: core.CommandRegister, UserID: user}, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, errorOutbound(core.ErrCodeBadRequest, "invalid send_message payload")
		}
		if msg.To == "" {
			return nil, errorOutbound(core.ErrCodeBadRequest, "recipient is required")
		}
		if strings.TrimSpace(msg.Message) == "" {
			return nil, errorOutbound(core.ErrCodeBadRequest, "message is required")
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Message: core.Message{
				From: msg.From,
				To:   msg.To,
				Text: msg.Message,
			},
		}, nil
	case proto.InboundTypePing:
		return nil, &proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventPong}
	default:
		return nil, errorOutbound(core.ErrCodeInvalidMessage, "unknown message type")
	}
}

// decodeRegister accepts {"user": "id"} or a bare "id" string.
func decodeRegister(data json.RawMessage) (string, bool) {
	var reg proto.RegisterData
	if err := json.Unmarshal(data, &reg); err == nil {
		return strings.TrimSpace(reg.User), true
	}
	var user string
	if err := json.Unmarshal(data, &user); err == nil {
		return strings.TrimSpace(user), true
	}
	return "", false
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRegistered:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRegistered,
			Data:  proto.EventRegisteredData{User: event.User},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data: proto.EventReceiveMessageData{
				From:      event.Message.From,
				Message:   event.Message.Text,
				Timestamp: event.Message.Timestamp.UTC().Format(isoMillis),
			},
		}
	case core.EventError:
		if event.Error == nil {
			return *errorOutbound("unknown", "unknown error")
		}
		return *errorOutbound(event.Error.Code, event.Error.Message)
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func errorOutbound(code, msg string) *proto.Outbound {
	return &proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	}
}
