package socketio

import (
	"context"
	"time"

	"mechat-service/database"
	"mechat-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var (
	server   *socket.Server
	presence = NewRegistry()
	events   *Router
)

func Init(app *fiber.App) *socket.Server {
	options := socket.DefaultServerOptions()
	options.SetServeClient(true)
	options.SetAllowEIO3(true)
	options.SetPingInterval(25 * time.Second)
	options.SetPingTimeout(20 * time.Second)
	options.SetMaxHttpBufferSize(100000000)
	options.SetConnectTimeout(45 * time.Second)
	options.SetAdapter(&adapter.RedisAdapterBuilder{
		Redis: r_type.NewRedisClient(context.Background(), database.Redis[1]),
		Opts:  &adapter.RedisAdapterOptions{},
	})

	server = socket.NewServer(nil, nil)
	events = NewRouter(presence, serverEmitter{})

	// Authenticate the handshake; presence registration itself happens on the
	// explicit "register" event.
	server.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		token, auth := client.Conn().Request().Query().Get("token")

		if auth {
			claims, err := utils.CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")
			if err == nil {
				client.SetData(claims)
			}
		}

		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))

	return server
}

// Events returns the event router wired to the live server.
func Events() *Router {
	return events
}

// NotifyUser pushes a targeted event to a user's current connection if they
// are online. Safe to call before Init; it then reports offline.
func NotifyUser(userID string, event string, payload any) bool {
	if events == nil {
		return false
	}
	return events.NotifyUser(userID, event, payload)
}

// serverEmitter delivers router events through the socket.io server. Every
// socket is a member of the room named after its own id, which gives targeted
// delivery without bookkeeping.
type serverEmitter struct{}

func (serverEmitter) Emit(connID string, event string, payload any) {
	server.To(socket.Room(connID)).Emit(event, payload)
}

func (serverEmitter) Broadcast(event string, payload any) {
	server.FetchSockets()(func(sockets []*socket.RemoteSocket, _ error) {
		for _, s := range sockets {
			s.Emit(event, payload)
		}
	})
}
