package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/devlink-social/apiserver/internal/services"
	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/internal/token"
	"github.com/devlink-social/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const testSecret = "handler-test-secret"

// countingUserRepo is an in-memory user repository that counts every
// call, so tests can assert that failed auth never reaches storage.
type countingUserRepo struct {
	users  map[int]types.User
	nextID int
	calls  int
}

func newCountingUserRepo() *countingUserRepo {
	return &countingUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (r *countingUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	r.calls++
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *countingUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.calls++
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *countingUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.calls++
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

func (r *countingUserRepo) UpdateAvatar(_ context.Context, id int, avatar string) error {
	r.calls++
	user, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Avatar = avatar
	r.users[id] = user
	return nil
}

func (r *countingUserRepo) Delete(_ context.Context, id int) error {
	r.calls++
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
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
	posts := make([]types.Post, 0, len(r.posts))
	for id := r.nextID - 1; id >= 1; id-- {
		if post, ok := r.posts[id]; ok {
			posts = append(posts, post)
		}
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

type noopProfileRemover struct{}

func (noopProfileRemover) DeleteByUserID(context.Context, int) error { return nil }

// testEnv wires real services over in-memory repositories behind the
// full route tree, the way the server package does.
type testEnv struct {
	router   *chi.Mux
	codec    *token.Codec
	userRepo *countingUserRepo
	postRepo *memPostRepo
}

func newTestEnv() *testEnv {
	userRepo := newCountingUserRepo()
	postRepo := newMemPostRepo()

	events := services.NewActivityPublisher(nil)
	userService := services.NewUserService(userRepo, noopProfileRemover{}, postRepo, events)
	postService := services.NewPostService(postRepo, userRepo, events)

	codec := token.NewCodec(testSecret, time.Hour)
	authMiddleware := RequireAuth(codec)

	authHandler := NewAuthHandler(userService, codec)
	avatarHandler := NewAvatarHandler(userService, nil)
	postHandler := NewPostHandler(postService)

	router := chi.NewRouter()
	router.Route("/api/users", func(r chi.Router) {
		UsersRouter(r, authHandler, avatarHandler, authMiddleware)
	})
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, authHandler, authMiddleware)
	})
	router.Route("/api/posts", func(r chi.Router) {
		PostRouter(r, postHandler, authMiddleware)
	})

	return &testEnv{
		router:   router,
		codec:    codec,
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
