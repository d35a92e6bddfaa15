package aggregate_test

import (
	"testing"

	"github.com/dest-sports/backoffice/internal/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture: 2 courses, 2 batches each, 2 plans per batch, enrollments spread
// unevenly across the plans of the first course.
func courseFixture() (courses, batches, plans, enrollments []map[string]any) {
	courses = []map[string]any{
		{"id": "c1", "name": "Junior Tennis"},
		{"id": "c2", "name": "Adult Golf"},
	}
	batches = []map[string]any{
		{"id": "b1", "course_id": "c1", "name": "Morning"},
		{"id": "b2", "course_id": "c1", "name": "Evening"},
		{"id": "b3", "course_id": "c2", "name": "Weekend"},
		{"id": "b4", "course_id": "c2", "name": "Weekday"},
	}
	plans = []map[string]any{
		{"id": "p1", "batch_id": "b1"},
		{"id": "p2", "batch_id": "b1"},
		{"id": "p3", "batch_id": "b2"},
		{"id": "p4", "batch_id": "b2"},
		{"id": "p5", "batch_id": "b3"},
		{"id": "p6", "batch_id": "b3"},
		{"id": "p7", "batch_id": "b4"},
		{"id": "p8", "batch_id": "b4"},
	}
	enrollments = []map[string]any{
		{"id": "e1", "plan_id": "p1"},
		{"id": "e2", "plan_id": "p1"},
		{"id": "e3", "plan_id": "p2"},
		{"id": "e4", "plan_id": "p3"},
		{"id": "e5", "plan_id": "p3"},
		{"id": "e6", "plan_id": "p3"},
	}
	return
}

func TestCoursesRollUp(t *testing.T) {
	out := aggregate.Courses(courseFixture())
	require.Len(t, out, 2)

	c1 := out[0]
	assert.Equal(t, 2, c1.BatchCount)
	assert.Equal(t, 4, c1.PlanCount)
	assert.Equal(t, 6, c1.BookingCount, "course count is the sum over batches")

	require.Len(t, c1.Batches, 2)
	assert.Equal(t, 3, c1.Batches[0].BookingCount, "p1=2 + p2=1")
	assert.Equal(t, 3, c1.Batches[1].BookingCount, "p3=3 + p4=0")
	assert.Equal(t, 2, c1.Batches[0].Plans[0].BookingCount)
	assert.Equal(t, 0, c1.Batches[1].Plans[1].BookingCount)

	c2 := out[1]
	assert.Equal(t, 2, c2.BatchCount)
	assert.Equal(t, 4, c2.PlanCount)
	assert.Equal(t, 0, c2.BookingCount)
}

func TestCoursesDropOrphans(t *testing.T) {
	out := aggregate.Courses(
		[]map[string]any{{"id": "c1"}},
		[]map[string]any{{"id": "b1", "course_id": "c1"}, {"id": "b2", "course_id": "missing"}, {"id": "b3"}},
		nil, nil,
	)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].BatchCount, "batches with absent or unknown parents are dropped")
}

func TestCoursesEmptyInputs(t *testing.T) {
	assert.Empty(t, aggregate.Courses(nil, nil, nil, nil))

	out := aggregate.Courses([]map[string]any{{"id": "c1"}}, nil, nil, nil)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].BatchCount)
	assert.Zero(t, out[0].BookingCount)
}

func TestTurfsExcludeDeclinedBookings(t *testing.T) {
	turfs := []map[string]any{{"id": "t1", "name": "Green Arena"}}
	courts := []map[string]any{
		{"id": "ct1", "turf_id": "t1", "name": "Court A"},
		{"id": "ct2", "turf_id": "t1", "name": "Court B"},
	}
	bookings := []map[string]any{
		{"id": "bk1", "court_id": "ct1"},
		{"id": "bk2", "court_id": "ct1", "declined": true},
		{"id": "bk3", "court_id": "ct1"},
		{"id": "bk4", "court_id": "ct2", "declined": false},
	}

	out := aggregate.Turfs(turfs, courts, bookings)
	require.Len(t, out, 1)

	turf := out[0]
	assert.Equal(t, 2, turf.Courts[0].BookingCount, "3 bookings, 1 declined")
	assert.Equal(t, 1, turf.Courts[1].BookingCount)
	assert.Equal(t, 3, turf.BookingCount)
	assert.Equal(t, 2, turf.CourtCount)
}

func TestPartnerDetailMetrics(t *testing.T) {
	courses, batches, plans, enrollments := courseFixture()
	detail := aggregate.PartnerDetail(aggregate.DetailInput{
		Partner: map[string]any{
			"id":       "pt1",
			"name":     "Ace Academy",
			"verified": true,
			"sports":   []any{"tennis", "golf"},
			"gallery":  []any{map[string]any{"id": "g1", "url": "https://cdn.example.com/a.jpg"}},
		},
		Coaches:     []map[string]any{{"id": "co1", "name": "Coach Ravi"}},
		Courses:     courses,
		Batches:     batches,
		Plans:       plans,
		Enrollments: enrollments,
	})
	require.NotNil(t, detail)

	assert.Equal(t, 1, detail.Metrics.Coaches)
	assert.Equal(t, 2, detail.Metrics.Courses)
	assert.Equal(t, 0, detail.Metrics.Turfs, "academy partners carry no turf side")
	assert.Equal(t, 2, detail.Metrics.Sports)
	assert.Equal(t, 1, detail.Metrics.Gallery)
	assert.Equal(t, 4, detail.Metrics.CourseBatches)
	assert.Equal(t, 8, detail.Metrics.CoursePlans)
	assert.Equal(t, 6, detail.Metrics.CourseBookings)
}

func TestPartnerDetailNilPartner(t *testing.T) {
	assert.Nil(t, aggregate.PartnerDetail(aggregate.DetailInput{}))
}

func TestCoursesRecomputeFromScratch(t *testing.T) {
	courses, batches, plans, enrollments := courseFixture()
	first := aggregate.Courses(courses, batches, plans, enrollments)
	second := aggregate.Courses(courses, batches, plans, enrollments[:2])

	assert.Equal(t, 6, first[0].BookingCount)
	assert.Equal(t, 2, second[0].BookingCount, "counts never accumulate across calls")
}
