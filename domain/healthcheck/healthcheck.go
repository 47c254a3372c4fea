package healthcheck

import (
	"github.com/minimarket/goapi/base/ctx"
)

type Status struct {
	Version string `json:"version"`
	Mongo   bool   `json:"mongo"`
	Redis   bool   `json:"redis"`
}

type Repo interface {
	PingMongo(c ctx.Ctx) error
	PingRedis(c ctx.Ctx) error
}

type Usecase interface {
	Status(c ctx.Ctx) *Status
}
