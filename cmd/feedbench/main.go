package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/response"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
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

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func report(name string, ds []time.Duration) {
	fmt.Printf("%-28s samples=%d avg=%v p95=%v p99=%v\n", name, len(ds), avg(ds), pct(ds, 0.95), pct(ds, 0.99))
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	// params
	authors := envInt("AUTHORS", 200)
	posts := envInt("POSTS", 20) // per author
	follows := envInt("FOLLOWS", 50)
	reads := envInt("READS", 200)

	// clean tables for a reproducible run (ok for local bench)
	for _, m := range []any{&model.Comment{}, &model.Post{}, &model.Fan{}, &model.Follow{}, &model.Group{}, &model.User{}} {
		_ = db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)

	replicator := service.NewFanReplicator(fanRepo, cfg.Feed.ReplicatorQueue)
	stop := replicator.Start(cfg.Feed.ReplicatorWorkers)
	defer stop(ctx)

	feed := service.NewFeedService(postRepo, groupRepo, userRepo, followRepo, cfg.Feed.PageSize)
	rel := service.NewRelationshipService(followRepo, fanRepo, userRepo, replicator, cfg.Feed.PageSize)

	// seed authors and their posts
	users := make([]model.User, authors+1)
	for i := range users {
		name := fmt.Sprintf("bench%05d", i)
		users[i] = model.User{Username: name, Email: name + "@example.com", Password: "p"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		panic(err)
	}
	reader := users[0]
	base := time.Now().Add(-time.Duration(authors*posts) * time.Second)
	batch := make([]model.Post, 0, authors*posts)
	for i := 1; i <= authors; i++ {
		for j := 0; j < posts; j++ {
			at := base.Add(time.Duration(i*posts+j) * time.Second)
			batch = append(batch, model.Post{Text: fmt.Sprintf("post %d-%d", i, j), AuthorID: users[i].ID, CreatedAt: at, UpdatedAt: at})
		}
	}
	if err := db.Omit("Author", "Group").CreateInBatches(&batch, 500).Error; err != nil {
		panic(err)
	}

	// reader follows a random subset
	r := rand.New(rand.NewSource(1))
	followLat := make([]time.Duration, 0, follows)
	for _, idx := range r.Perm(authors)[:min(follows, authors)] {
		st := time.Now()
		if err := rel.Follow(ctx, reader.ID, users[idx+1].Username); err != nil {
			panic(err)
		}
		followLat = append(followLat, time.Since(st))
	}

	land := make([]time.Duration, 0, len(followLat))
	timeout := time.After(30 * time.Second)
collect:
	for len(land) < len(followLat) {
		select {
		case d := <-replicator.Metrics():
			land = append(land, d)
		case <-timeout:
			fmt.Printf("timeout while waiting for replicator metrics: got=%d want=%d\n", len(land), len(followLat))
			break collect
		}
	}

	followingLat := make([]time.Duration, 0, reads)
	globalLat := make([]time.Duration, 0, reads)
	for i := 0; i < reads; i++ {
		page := 1 + i%5
		st := time.Now()
		_ = must(feed.FollowingFeed(ctx, reader.ID, page))
		followingLat = append(followingLat, time.Since(st))

		st = time.Now()
		_ = must(feed.GlobalFeed(ctx, page))
		globalLat = append(globalLat, time.Since(st))
	}

	// cached index page: one render, then hits
	cache := pagecache.New(pagecache.NewMemoryStore(), cfg.Feed.IndexCacheTTL)
	first := must(feed.GlobalFeed(ctx, 1))
	cache.Put(ctx, must(response.Marshal(first)))
	hitLat := make([]time.Duration, 0, reads)
	for i := 0; i < reads; i++ {
		st := time.Now()
		if _, ok := cache.Get(ctx); !ok {
			fmt.Println("unexpected cache miss")
		}
		hitLat = append(hitLat, time.Since(st))
	}

	fmt.Printf("AUTHORS=%d POSTS/author=%d FOLLOWS=%d READS=%d PAGE=%d\n", authors, posts, len(followLat), reads, cfg.Feed.PageSize)
	report("Follow (sync write)", followLat)
	report("Fan index landing", land)
	report("Following feed read", followingLat)
	report("Global feed read", globalLat)
	report("Index cache hit", hitLat)
}
