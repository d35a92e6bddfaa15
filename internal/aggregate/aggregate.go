// Package aggregate assembles flat backend collections into the containment
// hierarchies the panel renders, injecting the roll-up counts bottom-up.
// Everything here is pure: counts are recomputed from scratch on every call
// and never read from cached fields.
package aggregate

import (
	"github.com/dest-sports/backoffice/internal/viewmodel"
)

func str(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

// groupByParent buckets child rows under their parent-reference value.
// Orphans (empty or unknown parent) are dropped.
func groupByParent(rows []map[string]any, parentKey string) map[string][]map[string]any {
	out := make(map[string][]map[string]any)
	for _, row := range rows {
		parent := str(row, parentKey)
		if parent == "" {
			continue
		}
		out[parent] = append(out[parent], row)
	}
	return out
}

// Courses walks Course→Batch→Plan→Enrollment by parent reference and injects
// the counts bottom-up. Enrollments reference plans only: a batch's booking
// count is the sum over its plans, and a course's the sum over its batches.
func Courses(courses, batches, plans, enrollments []map[string]any) []viewmodel.Course {
	batchesByCourse := groupByParent(batches, "course_id")
	plansByBatch := groupByParent(plans, "batch_id")
	enrollmentsByPlan := groupByParent(enrollments, "plan_id")

	out := make([]viewmodel.Course, 0, len(courses))
	for _, courseRow := range courses {
		course := viewmodel.NormalizeCourse(courseRow)
		for _, batchRow := range batchesByCourse[course.ID] {
			batch := viewmodel.NormalizeBatch(batchRow)
			for _, planRow := range plansByBatch[batch.ID] {
				plan := viewmodel.NormalizePlan(planRow)
				plan.BookingCount = len(enrollmentsByPlan[plan.ID])
				batch.Plans = append(batch.Plans, plan)
				batch.BookingCount += plan.BookingCount
			}
			batch.PlanCount = len(batch.Plans)
			course.Batches = append(course.Batches, batch)
			course.PlanCount += batch.PlanCount
			course.BookingCount += batch.BookingCount
		}
		course.BatchCount = len(course.Batches)
		out = append(out, course)
	}
	return out
}

// declined reports whether a booking row is declined. Absent or malformed
// means not declined.
func declined(row map[string]any) bool {
	v, _ := row["declined"].(bool)
	return v
}

// Turfs walks Turf→Court→Booking by parent reference. Declined bookings are
// excluded from every count.
func Turfs(turfs, courts, bookings []map[string]any) []viewmodel.Turf {
	courtsByTurf := groupByParent(courts, "turf_id")
	bookingsByCourt := groupByParent(bookings, "court_id")

	out := make([]viewmodel.Turf, 0, len(turfs))
	for _, turfRow := range turfs {
		turf := viewmodel.NormalizeTurf(turfRow)
		for _, courtRow := range courtsByTurf[turf.ID] {
			court := viewmodel.NormalizeCourt(courtRow)
			for _, bookingRow := range bookingsByCourt[court.ID] {
				if declined(bookingRow) {
					continue
				}
				court.BookingCount++
			}
			turf.Courts = append(turf.Courts, court)
			turf.BookingCount += court.BookingCount
		}
		turf.CourtCount = len(turf.Courts)
		out = append(out, turf)
	}
	return out
}

// DetailInput carries the flat collections the backend returns for one
// partner's detail view.
type DetailInput struct {
	Partner     map[string]any
	Coaches     []map[string]any
	Courses     []map[string]any
	Batches     []map[string]any
	Plans       []map[string]any
	Enrollments []map[string]any
	Turfs       []map[string]any
	Courts      []map[string]any
	Bookings    []map[string]any
}

// PartnerDetail assembles the full detail view: the base partner, its coach
// roster, both hierarchies, and the metrics totals block. Academy and gym
// partners carry no turf side; the empty input simply rolls up to zero.
func PartnerDetail(in DetailInput) *viewmodel.PartnerDetail {
	if in.Partner == nil {
		return nil
	}
	detail := &viewmodel.PartnerDetail{
		Partner: viewmodel.NormalizePartner(in.Partner),
		Coaches: viewmodel.NormalizeCoaches(in.Coaches),
		Courses: Courses(in.Courses, in.Batches, in.Plans, in.Enrollments),
		Turfs:   Turfs(in.Turfs, in.Courts, in.Bookings),
	}

	m := viewmodel.PartnerMetrics{
		Coaches: len(detail.Coaches),
		Courses: len(detail.Courses),
		Turfs:   len(detail.Turfs),
		Gallery: len(detail.Gallery),
		Sports:  len(detail.Sports),
	}
	for _, course := range detail.Courses {
		m.CourseBatches += course.BatchCount
		m.CoursePlans += course.PlanCount
		m.CourseBookings += course.BookingCount
	}
	for _, turf := range detail.Turfs {
		m.TurfCourts += turf.CourtCount
		m.TurfBookings += turf.BookingCount
	}
	detail.Metrics = m
	return detail
}
