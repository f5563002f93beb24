package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
)

// UserDirectory is an in-memory repository.UserDirectory. Fail makes every lookup
// return the given error, simulating a directory outage.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]entity.User
	fail  error
}

func NewUserDirectory(users ...entity.User) *UserDirectory {
	d := &UserDirectory{users: make(map[string]entity.User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *UserDirectory) Put(u entity.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *UserDirectory) Fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *UserDirectory) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.fail != nil {
		return nil, d.fail
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := d.users[id]
	if !ok || !u.IsActive {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

var _ repository.UserDirectory = (*UserDirectory)(nil)
