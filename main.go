package main

import (
	"log"

	"Presence/Config"
	"Presence/CronJobs"
	"Presence/FiberConfig"
	"Presence/Models"
	"Presence/email"
)

func main() {
	cfg := Config.Load("config.json5")

	Models.Connect(cfg.DatabasePath)

	store := Models.NewAttendanceStore(Models.DB)
	sender := email.NewSender(cfg.Email)
	closer := CronJobs.NewDailyCloser(store, sender, cfg.CloseSchedule)
	if err := closer.Start(); err != nil {
		log.Fatal("Failed to start daily close scheduler: ", err)
	}

	FiberConfig.FiberConfig(cfg, closer)
}
