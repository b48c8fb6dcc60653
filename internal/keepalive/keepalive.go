// Package keepalive pings the service's own public URL on a schedule so
// sleep-prone hosts (free-tier dynos and the like) keep the process warm.
package keepalive

import (
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Pinger struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

func New(url string, log *logrus.Logger) *Pinger {
	return &Pinger{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

func (p *Pinger) Ping() error {
	resp, err := p.client.Get(p.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("self-ping: status %d", resp.StatusCode)
	}
	return nil
}

// Start schedules a ping every 10 minutes (hosts sleep after ~15 idle) and
// returns the running cron so the caller can Stop it.
func (p *Pinger) Start() *cron.Cron {
	c := cron.New()
	_, _ = c.AddFunc("*/10 * * * *", func() {
		if err := p.Ping(); err != nil {
			p.log.WithError(err).Warn("self-ping failed")
			return
		}
		p.log.WithField("url", p.url).Debug("self-ping ok")
	})
	c.Start()
	return c
}
