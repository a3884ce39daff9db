package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func BenchmarkFollowWrite_And_FanRedundancy(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	fanRepo := NewFanRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := make([]model.User, 1000)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("u%04d", i), Email: fmt.Sprintf("u%04d@example.com", i), Password: "p"}
	}
	if err := db.CreateInBatches(&users, 200).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	r := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[r.Intn(len(users))].ID
		to := users[r.Intn(len(users))].ID
		if from == to {
			continue
		}
		_, _ = followRepo.Create(ctx, from, to)
		_ = fanRepo.Create(ctx, to, from)
	}
}

func BenchmarkFollowingFeedQuery(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	// 构造：u0 关注 N 个作者，每个作者 5 篇帖子
	const N = 500
	u0 := testutil.MustUser(b, db, "u0")
	for i := 1; i <= N; i++ {
		author := testutil.MustUser(b, db, fmt.Sprintf("u%d", i))
		_, _ = followRepo.Create(ctx, u0.ID, author.ID)
		for j := 0; j < 5; j++ {
			_ = postRepo.Create(ctx, &model.Post{Text: fmt.Sprintf("p%d-%d", i, j), AuthorID: author.ID})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ids, _ := followRepo.ListFolloweeIDs(ctx, u0.ID)
		filter := PostFilter{AuthorIDs: ids}
		_, _ = postRepo.Count(ctx, filter)
		_, _ = postRepo.List(ctx, filter, 0, 10)
	}
}
