package main

import (
	"SendBay/config"
	"SendBay/internal/repo"
	"SendBay/internal/worker"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("mail worker started")
	if err := worker.RunMailWorker(ctx); err != nil {
		log.Fatalf("mail worker stopped: %v", err)
	}
}
