package webhook

import (
	"context"
	"log"
	"time"
)

// 每次发送之后的固定间隔，机器人平台普遍限制在每分钟 20 条左右
const sendInterval = time.Second

// Dispatcher 持有全部已配置 webhook 的 adapter（id → adapter），
// 构造完成后只读，整个运行周期共享复用
type Dispatcher struct {
	adapters map[string]Adapter
	interval time.Duration
	sleep    func(time.Duration)
}

func NewDispatcher(adapters map[string]Adapter) *Dispatcher {
	return &Dispatcher{
		adapters: adapters,
		interval: sendInterval,
		sleep:    time.Sleep,
	}
}

// WithSleep 注入睡眠函数，测试时替换掉真实等待
func (d *Dispatcher) WithSleep(sleep func(time.Duration)) *Dispatcher {
	d.sleep = sleep
	return d
}

// Broadcast 把一批消息投递到一批 webhook：外层按 webhook 配置顺序，内层按消息顺序。
// 单次失败只记日志并继续，不重试；每次发送后都等待固定间隔。
// 引用了未配置 webhook 的栏目会在这里被告警并跳过
func (d *Dispatcher) Broadcast(ctx context.Context, webhookIDs []string, messages []string) (sent, failed int) {
	for _, id := range webhookIDs {
		adapter, ok := d.adapters[id]
		if !ok {
			log.Printf("webhook %q not configured, skip", id)
			continue
		}
		for i, msg := range messages {
			if err := adapter.SendMarkdown(ctx, msg); err != nil {
				log.Printf("send message %d/%d to %q failed: %v", i+1, len(messages), id, err)
				failed++
			} else {
				sent++
			}
			d.sleep(d.interval)
		}
	}
	return sent, failed
}
