package services

import (
	"context"
	"sort"

	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/types"
)

// In-memory repositories backing the service tests.

func profileForUser(userID int) types.Profile {
	return types.Profile{
		UserID:     userID,
		Status:     "Developer",
		Skills:     []string{"Go"},
		Experience: []types.Experience{},
		Education:  []types.Education{},
	}
}

func postForUser(userID int, text string) types.Post {
	return types.Post{
		UserID:   userID,
		Text:     text,
		Likes:    []types.Like{},
		Comments: []types.Comment{},
	}
}

type memUserRepo struct {
	users  map[int]types.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	ids := make([]int, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if r.users[id].Email == email {
			return r.users[id], nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) UpdateAvatar(_ context.Context, id int, avatar string) error {
	user, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Avatar = avatar
	r.users[id] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memProfileRepo struct {
	profiles map[int]types.Profile
	nextID   int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[int]types.Profile{}, nextID: 1}
}

func (r *memProfileRepo) GetByUserID(_ context.Context, userID int) (types.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (r *memProfileRepo) List(_ context.Context) ([]types.Profile, error) {
	userIDs := make([]int, 0, len(r.profiles))
	for userID := range r.profiles {
		userIDs = append(userIDs, userID)
	}
	sort.Ints(userIDs)
	profiles := make([]types.Profile, 0, len(userIDs))
	for _, userID := range userIDs {
		profiles = append(profiles, r.profiles[userID])
	}
	return profiles, nil
}

func (r *memProfileRepo) Upsert(_ context.Context, profile types.Profile) (types.Profile, error) {
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
	} else {
		profile.ID = r.nextID
		r.nextID++
	}
	r.profiles[profile.UserID] = profile
	return profile, nil
}

func (r *memProfileRepo) DeleteByUserID(_ context.Context, userID int) error {
	if _, ok := r.profiles[userID]; !ok {
		return store.ErrNotFound
	}
	delete(r.profiles, userID)
	return nil
}

type memPostRepo struct {
	posts  map[int]types.Post
	nextID int
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[int]types.Post{}, nextID: 1}
}

func (r *memPostRepo) GetByID(_ context.Context, id int) (types.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (r *memPostRepo) List(_ context.Context) ([]types.Post, error) {
	ids := make([]int, 0, len(r.posts))
	for id := range r.posts {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	posts := make([]types.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, r.posts[id])
	}
	return posts, nil
}

func (r *memPostRepo) Create(_ context.Context, post types.Post) (types.Post, error) {
	post.ID = r.nextID
	r.nextID++
	r.posts[post.ID] = post
	return post, nil
}

func (r *memPostRepo) Update(_ context.Context, post types.Post) (types.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return types.Post{}, store.ErrNotFound
	}
	r.posts[post.ID] = post
	return post, nil
}

func (r *memPostRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) DeleteByUserID(_ context.Context, userID int) error {
	for id, post := range r.posts {
		if post.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}
