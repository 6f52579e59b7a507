package router

import (
	"fmt"

	"mechat-service/socketio"

	"github.com/zishang520/socket.io/v2/socket"
)

// field reads one value out of a loosely typed client payload. Socket clients
// send ids both as strings and as JSON numbers.
func field(payload map[string]interface{}, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func payloadArg(args []interface{}) map[string]interface{} {
	if len(args) == 0 {
		return map[string]interface{}{}
	}
	if payload, ok := args[0].(map[string]interface{}); ok {
		return payload
	}
	return map[string]interface{}{}
}

func Socket(server *socket.Server) {
	events := socketio.Events()

	server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		connID := string(client.Id())

		client.On("register", func(args ...interface{}) {
			userID := ""
			if len(args) > 0 {
				if id, ok := args[0].(string); ok {
					userID = id
				} else {
					userID = field(payloadArg(args), "userId")
				}
			}
			events.Register(userID, connID)
		})

		client.On("sendMessage", func(args ...interface{}) {
			payload := payloadArg(args)
			data, _ := payload["data"].(map[string]interface{})
			events.SendMessage(
				connID,
				field(payload, "senderId"),
				field(payload, "receiverId"),
				data,
			)
		})

		client.On("typing", func(args ...interface{}) {
			payload := payloadArg(args)
			events.Typing(field(payload, "senderId"), field(payload, "receiverId"))
		})

		client.On("stopTyping", func(args ...interface{}) {
			payload := payloadArg(args)
			events.StopTyping(field(payload, "senderId"), field(payload, "receiverId"))
		})

		client.On("deleteMessage", func(args ...interface{}) {
			payload := payloadArg(args)
			events.DeleteMessage(
				connID,
				field(payload, "messageId"),
				field(payload, "receiverId"),
			)
		})

		client.On("reactMessage", func(args ...interface{}) {
			payload := payloadArg(args)
			events.ReactMessage(
				connID,
				field(payload, "messageId"),
				field(payload, "reaction"),
				field(payload, "receiverId"),
				field(payload, "senderId"),
			)
		})

		client.On("disconnect", func(args ...interface{}) {
			events.Disconnect(connID)
		})
	})
}
