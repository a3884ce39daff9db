package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
)

type replicateAction int

const (
	actionAdd replicateAction = iota + 1
	actionRemove
)

const (
	defaultReplicatorWorkers = 4
	defaultReplicatorQueue   = 10000
	replicateTimeout         = 5 * time.Second
	drainTimeout             = 2 * time.Second
)

type replicateJob struct {
	action replicateAction
	userID uint64
	fanID  uint64
	enqAt  time.Time
}

// FanReplicator 异步维护粉丝表（follows 的反向冗余索引）
type FanReplicator struct {
	fanRepo   repository.FanRepository
	ch        chan replicateJob
	metricsCh chan time.Duration
}

func NewFanReplicator(fanRepo repository.FanRepository, queueSize int) *FanReplicator {
	if queueSize <= 0 {
		queueSize = defaultReplicatorQueue
	}
	return &FanReplicator{
		fanRepo:   fanRepo,
		ch:        make(chan replicateJob, queueSize),
		metricsCh: make(chan time.Duration, 4096),
	}
}

// Start 启动 workers 个消费者。返回的 stop 先在有限时间内排空队列，再等待所有 worker 退出。
func (r *FanReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = defaultReplicatorWorkers
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.apply(job)
				case <-stopCh:
					return
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() {
			r.drain(ctx)
			close(stopCh)
			wg.Wait()
		})
		return nil
	}
}

func (r *FanReplicator) drain(ctx context.Context) {
	timeout := time.NewTimer(drainTimeout)
	defer timeout.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for len(r.ch) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-timeout.C:
			logger.Warn("replicator drain timed out", zap.Int("pending", len(r.ch)))
			return
		case <-tick.C:
		}
	}
}

func (r *FanReplicator) apply(job replicateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), replicateTimeout)
	defer cancel()

	var err error
	switch job.action {
	case actionAdd:
		err = r.fanRepo.Create(ctx, job.userID, job.fanID)
	case actionRemove:
		err = r.fanRepo.Delete(ctx, job.userID, job.fanID)
	}
	if err != nil {
		logger.Warn("replicate fan failed",
			zap.Uint64("user", job.userID),
			zap.Uint64("fan", job.fanID),
			zap.Error(err),
		)
	}
	if !job.enqAt.IsZero() {
		select {
		case r.metricsCh <- time.Since(job.enqAt):
		default:
		}
	}
}

func (r *FanReplicator) EnqueueAdd(userID, fanID uint64) {
	r.enqueue(replicateJob{action: actionAdd, userID: userID, fanID: fanID, enqAt: time.Now()})
}

func (r *FanReplicator) EnqueueRemove(userID, fanID uint64) {
	r.enqueue(replicateJob{action: actionRemove, userID: userID, fanID: fanID, enqAt: time.Now()})
}

func (r *FanReplicator) enqueue(job replicateJob) {
	select {
	case r.ch <- job:
	default:
		logger.Warn("replicator queue full, drop job",
			zap.Int("action", int(job.action)),
			zap.Uint64("user", job.userID),
			zap.Uint64("fan", job.fanID),
		)
	}
}

// Metrics 返回复制落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *FanReplicator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *FanReplicator) QueueLen() int { return len(r.ch) }
