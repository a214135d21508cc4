package graph

import (
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sakif/journal-api/internal/model"
)

// TimeLayout is the wire format of every timestamp field.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type userResolver struct {
	u *model.Identity
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }
func (r *userResolver) Email() string { return r.u.Email }
func (r *userResolver) Name() string { return r.u.Name }
func (r *userResolver) CreatedAt() string { return formatTime(r.u.CreatedAt) }

type entryResolver struct {
	e model.Entry
}

func (r *entryResolver) ID() graphql.ID { return graphql.ID(r.e.ID) }
func (r *entryResolver) UserID() graphql.ID { return graphql.ID(r.e.UserID) }
func (r *entryResolver) Title() string { return r.e.Title }
func (r *entryResolver) Content() string { return r.e.Content }
func (r *entryResolver) CreatedAt() string { return formatTime(r.e.CreatedAt) }
func (r *entryResolver) UpdatedAt() string { return formatTime(r.e.UpdatedAt) }

type authPayloadResolver struct {
	token string
	user  *model.Identity
}

func (r *authPayloadResolver) Token() string { return r.token }
func (r *authPayloadResolver) User() *userResolver { return &userResolver{u: r.user} }
