package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred/internal/testutil"
)

// newParticipantService returns a service whose clock advances one second per call
func newParticipantService(t *testing.T) *ParticipantService {
	t.Helper()
	svc := NewParticipantService(testutil.OpenInMemoryDB(t))
	clock := time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func age(v float64) *float64 { return &v }

func annLee() ParticipantInput {
	return ParticipantInput{
		FirstName:    "Ann",
		LastName:     "Lee",
		Age:          age(10),
		Guardian:     "Sam Lee",
		ContactEmail: "sam@x.com",
		ContactPhone: "555-1000",
		SpecialNeeds: "none",
	}
}

func TestParticipantService_Create(t *testing.T) {
	svc := newParticipantService(t)
	in := annLee()
	in.ContactEmail = " Sam@X.com "
	in.Notes = "  likes drawing "

	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "sam@x.com", p.ContactEmail)
	assert.Equal(t, "likes drawing", p.Notes)
	assert.Equal(t, 10, p.Age)
	assert.Equal(t, "Ann Lee", p.FullName())
	assert.Equal(t, "Jan 15, 2026", p.DateAdded)
	assert.Equal(t, time.Date(2026, time.January, 15, 9, 0, 1, 0, time.UTC).UnixMilli(), p.CreatedAtMs)
}

func TestParticipantService_CreateDuplicate(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, annLee())
	require.NoError(t, err)

	_, err = svc.Create(ctx, annLee())
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
	assert.Equal(t, KindConflict, kindOf(err))

	shouty := annLee()
	shouty.FirstName, shouty.LastName, shouty.Guardian, shouty.ContactEmail = "ANN", "lee", "SAM LEE", "SAM@x.com"
	_, err = svc.Create(ctx, shouty)
	assert.ErrorIs(t, err, ErrDuplicateParticipant)

	other := annLee()
	other.ContactEmail = "sam.lee@x.com"
	_, err = svc.Create(ctx, other)
	assert.NoError(t, err)
}

func TestParticipantService_CreateValidation(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()

	cases := map[string]func(*ParticipantInput){
		"missing first name":    func(in *ParticipantInput) { in.FirstName = "  " },
		"missing last name":     func(in *ParticipantInput) { in.LastName = "" },
		"missing guardian":      func(in *ParticipantInput) { in.Guardian = "" },
		"missing contact email": func(in *ParticipantInput) { in.ContactEmail = "" },
		"missing contact phone": func(in *ParticipantInput) { in.ContactPhone = "" },
		"missing special needs": func(in *ParticipantInput) { in.SpecialNeeds = "" },
		"missing age":           func(in *ParticipantInput) { in.Age = nil },
		"NaN age":               func(in *ParticipantInput) { in.Age = age(math.NaN()) },
		"infinite age":          func(in *ParticipantInput) { in.Age = age(math.Inf(1)) },
		"negative age":          func(in *ParticipantInput) { in.Age = age(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := annLee()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestParticipantService_ListNewestFirst(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()
	for _, first := range []string{"Ann", "Ben", "Cal"} {
		in := annLee()
		in.FirstName = first
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Cal", list[0].FirstName)
	assert.Equal(t, "Ben", list[1].FirstName)
	assert.Equal(t, "Ann", list[2].FirstName)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].CreatedAtMs, list[i].CreatedAtMs)
	}
}

func TestParticipantService_Update(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()
	ann, err := svc.Create(ctx, annLee())
	require.NoError(t, err)
	ben := annLee()
	ben.FirstName = "Ben"
	_, err = svc.Create(ctx, ben)
	require.NoError(t, err)

	// Re-saving the same identity does not collide with itself
	same := annLee()
	same.Age = age(11)
	same.Notes = "moved up a group"
	require.NoError(t, svc.Update(ctx, ann.ID, same))

	// Renaming Ann to Ben collides with the other row
	clash := annLee()
	clash.FirstName = "ben"
	assert.ErrorIs(t, svc.Update(ctx, ann.ID, clash), ErrDuplicateParticipant)

	assert.ErrorIs(t, svc.Update(ctx, 9999, annLee()), ErrParticipantNotFound)

	invalid := annLee()
	invalid.ContactPhone = ""
	assert.ErrorIs(t, svc.Update(ctx, ann.ID, invalid), ErrValidation)

	got, err := svc.find(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, got.Age)
	assert.Equal(t, "moved up a group", got.Notes)
	assert.Equal(t, ann.CreatedAtMs, got.CreatedAtMs)
}

func TestParticipantService_UpdateKeepsGuardianFields(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()
	ann, err := svc.Create(ctx, annLee())
	require.NoError(t, err)
	require.NoError(t, svc.UpdateOwnProfile(ctx, "sam@x.com", ProfileInput{Interests: "music"}))

	require.NoError(t, svc.Update(ctx, ann.ID, annLee()))

	got, err := svc.find(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "music", got.Interests)
}

func TestParticipantService_Remove(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()
	ann, err := svc.Create(ctx, annLee())
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, ann.ID))
	assert.ErrorIs(t, svc.Remove(ctx, ann.ID), ErrParticipantNotFound)

	// The identity is free again once removed
	_, err = svc.Create(ctx, annLee())
	assert.NoError(t, err)
}

func TestParticipantService_OwnProfile(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()

	p, err := svc.GetOwnProfile(ctx, "sam@x.com")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, svc.UpdateOwnProfile(ctx, "sam@x.com", ProfileInput{Interests: "music"}), ErrProfileNotFound)

	ann, err := svc.Create(ctx, annLee())
	require.NoError(t, err)

	err = svc.UpdateOwnProfile(ctx, "SAM@x.com", ProfileInput{
		Interests:      " music ",
		Capabilities:   "reads well",
		HealthConcerns: "peanut allergy",
	})
	require.NoError(t, err)

	p, err = svc.GetOwnProfile(ctx, "sam@x.com")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, ann.ID, p.ID)
	assert.Equal(t, "music", p.Interests)
	assert.Equal(t, "reads well", p.Capabilities)
	assert.Equal(t, "peanut allergy", p.HealthConcerns)
	// Admin-managed fields are untouched
	assert.Equal(t, "Ann", p.FirstName)
	assert.Equal(t, "none", p.SpecialNeeds)
	assert.Equal(t, "555-1000", p.ContactPhone)

	other, err := svc.GetOwnProfile(ctx, "someone@else.com")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestIdentityKey(t *testing.T) {
	a := IdentityKey("Ann", "Lee", "Sam Lee", "sam@x.com")
	assert.Equal(t, a, IdentityKey(" ANN ", "lee", "sam lee", "SAM@X.COM"))
	assert.NotEqual(t, a, IdentityKey("Ann", "Lee", "Sam Lee", "sam.lee@x.com"))
	assert.NotEqual(t, IdentityKey("ab", "c", "g", "e"), IdentityKey("a", "bc", "g", "e"))
	assert.Len(t, a, 64)
}

const insertParticipantSQL = "INSERT INTO participants (first_name, last_name, age, guardian, contact_email, contact_phone, special_needs, identity_key, created_at_ms, date_added) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

// insertAnnLeeBeforeWrite adds the Ann Lee row inside the service's next write, past its duplicate check
func insertAnnLeeBeforeWrite(t *testing.T, svc *ParticipantService, update bool) {
	t.Helper()
	key := IdentityKey("Ann", "Lee", "Sam Lee", "sam@x.com")
	insertBeforeWrite(t, svc.db, update, insertParticipantSQL,
		"Ann", "Lee", 10, "Sam Lee", "sam@x.com", "555-1000", "none", key, int64(1), "Jan 15, 2026")
}

func TestParticipantService_CreateUniqueIndexConflict(t *testing.T) {
	svc := newParticipantService(t)
	insertAnnLeeBeforeWrite(t, svc, false)

	_, err := svc.Create(context.Background(), annLee())
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
	assert.Equal(t, KindConflict, kindOf(err))
}

func TestParticipantService_UpdateUniqueIndexConflict(t *testing.T) {
	svc := newParticipantService(t)
	ctx := context.Background()
	other := annLee()
	other.FirstName = "Bo"
	bo, err := svc.Create(ctx, other)
	require.NoError(t, err)
	insertAnnLeeBeforeWrite(t, svc, true)

	err = svc.Update(ctx, bo.ID, annLee())
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
	assert.Equal(t, KindConflict, kindOf(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bo", list[0].FirstName)
}
