package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/response"
)

// simClock 每个请求推进固定间隔，模拟稳定的请求速率
type simClock struct {
	now  atomic.Int64
	step time.Duration
}

func (c *simClock) Now() time.Time { return time.Unix(0, c.now.Load()) }
func (c *simClock) tick()          { c.now.Add(int64(c.step)) }

type scenarioResult struct {
	durations []time.Duration
	renders   int
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	posts := envInt("POSTS", 5000)
	reqs := envInt("REQS", 5000)
	interval := time.Duration(envInt("INTERVAL_MS", 50)) * time.Millisecond

	fmt.Println("Setting up test data...")
	author := model.User{Username: "cachebench", Email: "cachebench@example.com", Password: "p"}
	mustDo(db.Where("username = ?", author.Username).FirstOrCreate(&author).Error)
	rows := make([]model.Post, posts)
	for i := range rows {
		rows[i] = model.Post{Text: fmt.Sprintf("bench post %d", i), AuthorID: author.ID}
	}
	mustDo(db.Omit("Author", "Group").CreateInBatches(&rows, 1000).Error)

	feed := service.NewFeedService(
		repository.NewPostRepository(db),
		repository.NewGroupRepository(db),
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
		cfg.Feed.PageSize,
	)

	// Use real Redis when REDIS_ADDR is set, otherwise an in-process miniredis
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		mr := must(miniredis.Run())
		defer mr.Close()
		redisAddr = mr.Addr()
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	render := func(ctx context.Context) []byte {
		page := must(feed.GlobalFeed(ctx, 1))
		return must(response.Marshal(page))
	}

	noCache := runScenario(ctx, reqs, nil, interval, cfg.Feed.IndexCacheTTL, render)
	memory := runScenario(ctx, reqs, pagecache.NewMemoryStore(), interval, cfg.Feed.IndexCacheTTL, render)
	client.Del(ctx, pagecache.DefaultRedisKey)
	redisRes := runScenario(ctx, reqs, pagecache.NewRedisStore(client, ""), interval, cfg.Feed.IndexCacheTTL, render)

	fmt.Printf("\nIndex page latency (%d req, one every %v, ttl=%v, %d posts)\n", reqs, interval, cfg.Feed.IndexCacheTTL, posts)
	for _, row := range []struct {
		name string
		res  scenarioResult
	}{{"No cache", noCache}, {"Memory store", memory}, {"Redis store", redisRes}} {
		fmt.Printf("%-14s avg=%v p95=%v p99=%v renders=%d\n",
			row.name, avg(row.res.durations), pct(row.res.durations, 0.95), pct(row.res.durations, 0.99), row.res.renders)
	}
	if info, err := client.Info(ctx, "memory").Result(); err == nil {
		fmt.Printf("redis used_memory=%s\n", formatBytes(parseRedisMemory(info)))
	}
}

func runScenario(ctx context.Context, n int, store pagecache.Store, step, ttl time.Duration, render func(context.Context) []byte) scenarioResult {
	clock := &simClock{step: step}
	clock.now.Store(time.Now().UnixNano())
	var cache *pagecache.Cache
	if store != nil {
		cache = pagecache.New(store, ttl, pagecache.WithClock(clock.Now))
	}

	res := scenarioResult{durations: make([]time.Duration, 0, n)}
	for i := 0; i < n; i++ {
		st := time.Now()
		if cache != nil {
			if _, ok := cache.Get(ctx); !ok {
				cache.Put(ctx, render(ctx))
				res.renders++
			}
		} else {
			render(ctx)
			res.renders++
		}
		res.durations = append(res.durations, time.Since(st))
		clock.tick()
	}
	return res
}

// parseRedisMemory extracts used_memory from Redis INFO
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "used_memory:"); ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
