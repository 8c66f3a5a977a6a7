package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/swipechat-server/internal/proto"
)

// ws_smoke registers two users on a running server and relays one message between them.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	from := flag.String("from", "alice", "sender user id")
	to := flag.String("to", "bob", "recipient user id")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sender, err := connect(ctx, *addr, *from)
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}
	defer sender.Close(websocket.StatusNormalClosure, "bye")

	recipient, err := connect(ctx, *addr, *to)
	if err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	defer recipient.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, sender, proto.InboundTypeSendMessage, proto.SendMessageData{From: *from, To: *to, Message: *text}); err != nil {
		return err
	}

	for {
		var outbound struct {
			Type  string                        `json:"type"`
			Event string                        `json:"event"`
			Data  proto.EventReceiveMessageData `json:"data"`
			Error *proto.Error                  `json:"error"`
		}
		if err := wsjson.Read(ctx, recipient, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if outbound.Error != nil {
			return fmt.Errorf("server error %s: %s", outbound.Error.Code, outbound.Error.Msg)
		}
		if outbound.Event == proto.EventReceiveMessage {
			fmt.Printf("receive_message: from=%s message=%q timestamp=%s\n", outbound.Data.From, outbound.Data.Message, outbound.Data.Timestamp)
			return nil
		}
	}
}

func connect(ctx context.Context, addr, user string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if err := send(ctx, conn, proto.InboundTypeRegister, proto.RegisterData{User: user}); err != nil {
		conn.Close(websocket.StatusInternalError, "register failed")
		return nil, err
	}

	var ack proto.Outbound
	if err := wsjson.Read(ctx, conn, &ack); err != nil {
		conn.Close(websocket.StatusInternalError, "no ack")
		return nil, fmt.Errorf("read ack: %w", err)
	}
	if ack.Event != proto.EventRegistered {
		conn.Close(websocket.StatusInternalError, "unexpected ack")
		return nil, fmt.Errorf("unexpected ack: %+v", ack)
	}
	return conn, nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}
