package usecase

import (
	"github.com/minimarket/goapi/base/ctx"
	hcdomain "github.com/minimarket/goapi/domain/healthcheck"
)

type impl struct {
	repo    hcdomain.Repo
	version string
}

// New creates new healthcheck usecase aggregating the store probes
func New(repo hcdomain.Repo, version string) hcdomain.Usecase {
	return &impl{
		repo:    repo,
		version: version,
	}
}

func (im *impl) Status(context ctx.Ctx) *hcdomain.Status {
	return &hcdomain.Status{
		Version: im.version,
		Mongo:   im.repo.PingMongo(context) == nil,
		Redis:   im.repo.PingRedis(context) == nil,
	}
}
