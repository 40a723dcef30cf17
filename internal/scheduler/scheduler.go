package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler 按 cron 表达式周期性地执行一轮完整推送
type Scheduler struct {
	cron *cron.Cron
	run  func()
}

func New(spec string, run func()) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{cron: c, run: run}
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发推送
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start dispatch job...")
	s.run()
	log.Println("dispatch job done")
}
