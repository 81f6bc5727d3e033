package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dimitrije/hackteam-api/internal/models"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/dimitrije/hackteam-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teamStack struct {
	teams    *services.TeamService
	requests *services.RequestService
	profiles *services.ProfileService
	seats    *services.MembershipIndex
}

func newTeamStack(tdb *testutil.TestDB) teamStack {
	logger := newTestLogger()
	teams := services.NewTeamService(tdb.DB, logger, 5)
	profiles := services.NewProfileService(tdb.DB, logger)
	return teamStack{
		teams:    teams,
		requests: services.NewRequestService(tdb.DB, logger, teams, profiles),
		profiles: profiles,
		seats:    services.NewMembershipIndex(tdb.DB),
	}
}

func requestFor(t *testing.T, result *services.CreateTeamResult, userID uuid.UUID) uuid.UUID {
	t.Helper()
	for _, req := range result.Requests {
		if req.RequestedToID == userID {
			return req.ID
		}
	}
	t.Fatalf("no request for user %s", userID)
	return uuid.Nil
}

func TestTeamFlow_Integration_CreateAcceptComplete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	category, problem := fixtures.CreateCategory(t)
	leader := fixtures.CreateUser(t, testutil.WithKietian())
	alice := fixtures.CreateUser(t)
	bob := fixtures.CreateUser(t)

	result, err := stack.teams.Create(ctx, leader.Principal(), services.CreateTeamInput{
		Name:       "Circuit Breakers",
		Department: "CSE",
		MemberIDs:  []uuid.UUID{alice.ID, bob.ID},
		Project: models.ProjectInput{
			CategoryID:         &category.ID,
			ProblemStatementID: &problem.ID,
			IdeaName:           "Smart Bins",
			IdeaDesc:           "Waste sorting",
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^CL-[1-9][0-9]{3}$`, result.Team.Code)
	assert.Equal(t, 3, result.Team.Size)
	assert.True(t, result.Team.IsKietian)
	require.Len(t, result.Requests, 2)

	seated, err := stack.seats.IsSeated(ctx, leader.ID)
	require.NoError(t, err)
	assert.True(t, seated)

	_, err = stack.requests.Respond(ctx, requestFor(t, result, alice.ID), alice.ID, models.DecisionAccept)
	require.NoError(t, err)

	details, err := stack.teams.GetTeamForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, details.Team.Slot(1))
	assert.False(t, details.Team.IsCompleted)

	accepted, err := stack.requests.Respond(ctx, requestFor(t, result, bob.ID), bob.ID, models.DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)

	details, err = stack.teams.GetByID(ctx, result.Team.ID, leader.ID)
	require.NoError(t, err)
	assert.True(t, details.Team.IsCompleted)
	assert.Equal(t, bob.ID, details.Team.Slot(2))
	assert.Len(t, details.Members, 2)

	outsider := fixtures.CreateUser(t)
	_, err = stack.teams.GetByID(ctx, result.Team.ID, outsider.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTeamFlow_Integration_AcceptRejectsOtherInvites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	researcher := models.CategoryResearcher
	leaderA := fixtures.CreateUser(t, testutil.WithCategory(researcher))
	leaderB := fixtures.CreateUser(t, testutil.WithCategory(researcher))
	member := fixtures.CreateUser(t)
	project := models.ProjectInput{IdeaName: "Idea", IdeaDesc: "Desc"}

	teamA, err := stack.teams.Create(ctx, leaderA.Principal(), services.CreateTeamInput{
		Name: "A", Department: "ECE", MemberIDs: []uuid.UUID{member.ID}, Project: project,
	})
	require.NoError(t, err)
	teamB, err := stack.teams.Create(ctx, leaderB.Principal(), services.CreateTeamInput{
		Name: "B", Department: "ECE", MemberIDs: []uuid.UUID{member.ID}, Project: project,
	})
	require.NoError(t, err)

	pending, err := stack.requests.ListPending(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, teamB.Team.ID, pending[0].TeamID)

	_, err = stack.requests.Respond(ctx, requestFor(t, teamA, member.ID), member.ID, models.DecisionAccept)
	require.NoError(t, err)

	pending, err = stack.requests.ListPending(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = stack.requests.Respond(ctx, requestFor(t, teamB, member.ID), member.ID, models.DecisionAccept)
	assert.ErrorIs(t, err, services.ErrRequestNotFound)

	sent, err := stack.requests.ListSent(ctx, leaderB.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, models.RequestRejected, sent[0].Status)
}

func TestTeamFlow_Integration_ConcurrentAcceptsSeatOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	member := fixtures.CreateUser(t)
	project := models.ProjectInput{IdeaName: "Idea", IdeaDesc: "Desc"}

	const teams = 4
	accepts := make([]pendingAccept, 0, teams)
	for i := 0; i < teams; i++ {
		leader := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryResearcher))
		result, err := stack.teams.Create(ctx, leader.Principal(), services.CreateTeamInput{
			Name: "Team", Department: "ECE", MemberIDs: []uuid.UUID{member.ID}, Project: project,
		})
		require.NoError(t, err)
		accepts = append(accepts, pendingAccept{requestID: requestFor(t, result, member.ID), userID: member.ID})
	}

	errs := raceAccepts(ctx, stack, accepts)

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, models.ErrConflict) || errors.Is(err, models.ErrNotFound), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var seats int
	err := tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM team_seats WHERE user_id = $1`, member.ID).Scan(&seats)
	require.NoError(t, err)
	assert.Equal(t, 1, seats)
}

func TestTeamFlow_Integration_StartupProfileReplication(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	founder := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryStartup))
	startup := fixtures.CreateStartup(t, founder)
	member := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryStartup))

	result, err := stack.teams.Create(ctx, founder.Principal(), services.CreateTeamInput{
		Name:       "GreenGrid",
		Department: "ECE",
		MemberIDs:  []uuid.UUID{member.ID},
		Project:    models.ProjectInput{StartupID: &startup.ID},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^SU-`, result.Team.Code)

	_, err = stack.requests.Respond(ctx, requestFor(t, result, member.ID), member.ID, models.DecisionAccept)
	require.NoError(t, err)

	details, err := stack.profiles.GetDetails(ctx, member)
	require.NoError(t, err)
	require.NotNil(t, details.Startup)
	assert.Equal(t, startup.StartupName, details.Startup.StartupName)
	assert.Equal(t, member.ID, details.Startup.UserID)
	assert.Nil(t, details.Startup.FounderUID)
	require.NotNil(t, details.Startup.ClonedFromID)
	assert.Equal(t, startup.ID, *details.Startup.ClonedFromID)
}

func TestTeamFlow_Integration_CancelRequest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	leader := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryResearcher))
	member := fixtures.CreateUser(t)

	result, err := stack.teams.Create(ctx, leader.Principal(), services.CreateTeamInput{
		Name:       "Quitters",
		Department: "ECE",
		MemberIDs:  []uuid.UUID{member.ID},
		Project:    models.ProjectInput{IdeaName: "Idea", IdeaDesc: "Desc"},
	})
	require.NoError(t, err)
	requestID := requestFor(t, result, member.ID)

	assert.ErrorIs(t, stack.requests.Cancel(ctx, requestID, member.ID), services.ErrRequestNotFound)
	require.NoError(t, stack.requests.Cancel(ctx, requestID, leader.ID))

	details, err := stack.teams.GetByID(ctx, result.Team.ID, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, details.Team.RequestsCount)
	assert.Empty(t, details.Requests)
}

// raceAccepts fires every accept at once and returns the errors in order.
func raceAccepts(ctx context.Context, stack teamStack, accepts []pendingAccept) []error {
	start := make(chan struct{})
	errs := make([]error, len(accepts))

	var wg sync.WaitGroup
	for i, a := range accepts {
		wg.Add(1)
		go func(i int, a pendingAccept) {
			defer wg.Done()
			<-start
			_, errs[i] = stack.requests.Respond(ctx, a.requestID, a.userID, models.DecisionAccept)
		}(i, a)
	}
	close(start)
	wg.Wait()
	return errs
}

type pendingAccept struct {
	requestID uuid.UUID
	userID    uuid.UUID
}

func TestTeamFlow_Integration_SameRequestAcceptedTwiceConcurrently(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	leader := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryResearcher))
	member := fixtures.CreateUser(t)

	result, err := stack.teams.Create(ctx, leader.Principal(), services.CreateTeamInput{
		Name:       "Double Tap",
		Department: "ME",
		MemberIDs:  []uuid.UUID{member.ID},
		Project:    models.ProjectInput{IdeaName: "Idea", IdeaDesc: "Desc"},
	})
	require.NoError(t, err)
	requestID := requestFor(t, result, member.ID)

	errs := raceAccepts(ctx, stack, []pendingAccept{
		{requestID: requestID, userID: member.ID},
		{requestID: requestID, userID: member.ID},
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var seats int
	err = tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM team_seats WHERE user_id = $1`, member.ID).Scan(&seats)
	require.NoError(t, err)
	assert.Equal(t, 1, seats)

	details, err := stack.teams.GetByID(ctx, result.Team.ID, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, details.Team.Slot(1))
	assert.True(t, details.Team.IsCompleted)
}

func TestTeamFlow_Integration_InviteesRaceForLastSlot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	leader := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryResearcher))
	first := fixtures.CreateUser(t)
	second := fixtures.CreateUser(t)

	result, err := stack.teams.Create(ctx, leader.Principal(), services.CreateTeamInput{
		Name:       "Pair",
		Department: "ME",
		MemberIDs:  []uuid.UUID{first.ID},
		Project:    models.ProjectInput{IdeaName: "Idea", IdeaDesc: "Desc"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Team.Size)

	// A size-2 team only ever invites one member; a second pending invite for
	// the same slot can only exist as a stale row, so write it directly.
	var secondRequest uuid.UUID
	err = tdb.DB.Pool.QueryRow(ctx, `
		INSERT INTO team_requests (team_id, requested_by_id, requested_to_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, result.Team.ID, leader.ID, second.ID).Scan(&secondRequest)
	require.NoError(t, err)

	errs := raceAccepts(ctx, stack, []pendingAccept{
		{requestID: requestFor(t, result, first.ID), userID: first.ID},
		{requestID: secondRequest, userID: second.ID},
	})

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)

	var seated int
	err = tdb.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM team_seats WHERE team_id = $1 AND user_id <> $2
	`, result.Team.ID, leader.ID).Scan(&seated)
	require.NoError(t, err)
	assert.Equal(t, 1, seated)

	details, err := stack.teams.GetByID(ctx, result.Team.ID, leader.ID)
	require.NoError(t, err)
	assert.True(t, details.Team.IsCompleted)
	assert.Len(t, details.Members, 1)
}

func TestTeamFlow_Integration_StartupReacceptKeepsOneProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	stack := newTeamStack(tdb)
	ctx := context.Background()

	founder := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryStartup))
	startup := fixtures.CreateStartup(t, founder)
	member := fixtures.CreateUser(t, testutil.WithCategory(models.CategoryStartup))

	result, err := stack.teams.Create(ctx, founder.Principal(), services.CreateTeamInput{
		Name:       "SolarSeed",
		Department: "EEE",
		MemberIDs:  []uuid.UUID{member.ID},
		Project:    models.ProjectInput{StartupID: &startup.ID},
	})
	require.NoError(t, err)
	requestID := requestFor(t, result, member.ID)

	_, err = stack.requests.Respond(ctx, requestID, member.ID, models.DecisionAccept)
	require.NoError(t, err)

	_, err = stack.requests.Respond(ctx, requestID, member.ID, models.DecisionAccept)
	assert.ErrorIs(t, err, services.ErrRequestNotFound)

	var profiles int
	err = tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM startups WHERE user_id = $1`, member.ID).Scan(&profiles)
	require.NoError(t, err)
	assert.Equal(t, 1, profiles)
}
