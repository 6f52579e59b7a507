package main

import (
	"fmt"
	"log"
	"mechat-service/config"
	"mechat-service/database"
	"mechat-service/event"
	"mechat-service/event/listener"
	"mechat-service/mailer"
	"mechat-service/router"
	"mechat-service/socketio"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("mechat-service: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "mechat-service",
	})

	rest.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config("FRONTEND_ORIGIN"),
		AllowCredentials: true,
	}))

	database.RedisConnect()
	database.PostgresConnect()

	event.RabbitMQConnect([]string{
		// Connect to queues
		"mail",
	})

	// Run "mail" listener
	go listener.Mail(mailer.New())

	// Subscribe listener channel to "mail" events
	event.RabbitMQSubscribe([]event.RabbitMQSubscribeListener{
		{
			Queue:   "mail",
			Channel: listener.MailChannel,
		},
	})

	socket := socketio.Init(rest)

	router.Rest(rest)
	router.Socket(socket)

	go rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT")))

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	socket.Close(nil)
	event.RabbitMQChannel.Close()
	event.RabbitMQConnection.Close()
	event.InLogFile.Close()
	event.OutLogFile.Close()
	os.Exit(0)
}
