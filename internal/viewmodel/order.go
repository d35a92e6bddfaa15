package viewmodel

import (
	"strings"

	"github.com/dest-sports/backoffice/internal/searchindex"
)

// NormalizePayment maps a raw payment row.
func NormalizePayment(row Raw) Payment {
	createdAt := timeVal(row, "created_at", "createdAt")
	return Payment{
		ID:                str(row, "id"),
		Type:              strings.ToLower(str(row, "type")),
		Status:            strings.ToLower(strOr(row, "pending", "status")),
		Amount:            numOrZero(row, "amount"),
		Currency:          strOr(row, "INR", "currency"),
		RazorpayOrderID:   str(row, "razorpay_order_id"),
		RazorpayPaymentID: str(row, "razorpay_payment_id"),
		UserID:            str(row, "user_id"),
		CreatedAt:         createdAt,
		CreatedAtLabel:    FormatDateTime(createdAt),
	}
}

// NormalizePayments maps a raw collection into an id-keyed lookup for the
// order join.
func NormalizePayments(rows []Raw) map[string]Payment {
	out := make(map[string]Payment, len(rows))
	for _, row := range rows {
		p := NormalizePayment(row)
		if p.ID != "" {
			out[p.ID] = p
		}
	}
	return out
}

func normalizeCustomerParty(row Raw) OrderParty {
	if row == nil {
		return OrderParty{Name: "Unknown"}
	}
	return OrderParty{
		ID:     str(row, "id", "user_id"),
		Name:   strOr(row, "Unknown", "name", "full_name"),
		Email:  str(row, "email"),
		Phone:  str(row, "phone", "phone_number"),
		Gender: strings.ToLower(str(row, "gender")),
	}
}

func normalizePartnerParty(row Raw) OrderParty {
	if row == nil {
		return OrderParty{Name: "Unknown"}
	}
	return OrderParty{
		ID:    str(row, "id"),
		Name:  strOr(row, "Unknown", "name", "business_name"),
		Email: str(row, "email"),
		Phone: str(row, "whatsapp", "phone"),
	}
}

// deriveCourseStatus buckets an enrollment status into the operator
// vocabulary. Unknown values pass through capitalized.
func deriveCourseStatus(raw string) string {
	if raw == "" {
		return "Pending"
	}
	switch strings.ToLower(raw) {
	case "completed", "active", "success":
		return "Completed"
	case "cancelled", "canceled":
		return "Cancelled"
	case "failed":
		return "Failed"
	}
	return strings.ToUpper(raw[:1]) + raw[1:]
}

// NormalizeCourseOrder maps an enrollment row, its nested plan→batch→course
// chain and the payment joined by id into the unified order shape. The plan
// block is always present, empty-fielded when the join brought nothing.
// Amount prefers the settled payment amount over the listed plan fees.
func NormalizeCourseOrder(row Raw, payment *Payment) Order {
	createdAt := timeVal(row, "created_at", "createdAt")
	plan := rawMap(row, "plan")
	if plan == nil {
		plan = rawMap(row, "batch_plans")
	}
	var batch, course Raw
	if plan != nil {
		batch = rawMap(plan, "batch")
		if batch == nil {
			batch = rawMap(plan, "batches")
		}
	}
	if batch != nil {
		course = rawMap(batch, "course")
		if course == nil {
			course = rawMap(batch, "courses")
		}
	}

	o := Order{
		ID:             str(row, "id"),
		Type:           OrderTypeCourse,
		TypeLabel:      "Course",
		CreatedAt:      createdAt,
		CreatedAtLabel: FormatDateTime(createdAt),
		CustomerInfo:   rawMap(row, "customer_details"),
		PaymentID:      str(row, "payment_id"),
		Payment:        payment,
		Customer:       normalizeCustomerParty(rawMap(row, "user")),
		Partner:        normalizePartnerParty(rawMap(row, "partner")),
		Currency:       "INR",
		Status:         deriveCourseStatus(str(row, "status")),
		StatusRaw:      strings.ToLower(str(row, "status")),
	}
	detail := OrderPlan{}
	if plan != nil {
		detail.ID = str(plan, "id")
		detail.BatchID = str(plan, "batch_id")
		detail.Duration = str(plan, "duration")
		detail.Fees = numOrZero(plan, "fees", "price")
	}
	if batch != nil {
		detail.BatchName = str(batch, "name")
		detail.Schedule = str(batch, "schedule", "timing")
		detail.CourseID = str(batch, "course_id")
	}
	if course != nil {
		detail.CourseName = str(course, "name")
		detail.Sport = str(course, "sport")
		if detail.CourseID == "" {
			detail.CourseID = str(course, "id")
		}
	}
	o.Plan = &detail
	o.Amount = detail.Fees
	if payment != nil {
		if payment.Amount > 0 {
			o.Amount = payment.Amount
		}
		o.Currency = payment.Currency
	}

	b := searchindex.New()
	b.Add(o.ID, o.TypeLabel, o.Status, o.Customer.Name, o.Customer.Email,
		o.Customer.Phone, o.Partner.Name)
	b.Add(o.Plan.CourseName, o.Plan.BatchName, o.Plan.Sport, o.Plan.Schedule)
	b.AddCurrencyVariants(o.Amount, o.Currency)
	b.AddDate(o.CreatedAt)
	o.SearchIndex = b.String()
	return o
}

// NormalizeTurfOrder maps a turf booking row, its nested court→turf chain and
// the joined payment into the unified order shape.
func NormalizeTurfOrder(row Raw, payment *Payment) Order {
	createdAt := timeVal(row, "created_at", "createdAt")
	court := rawMap(row, "court")
	if court == nil {
		court = rawMap(row, "turf_courts")
	}
	var turf Raw
	if court != nil {
		turf = rawMap(court, "turf")
		if turf == nil {
			turf = rawMap(court, "turfs")
		}
	}

	booking := OrderBooking{
		PaymentID:     str(row, "payment_id"),
		Declined:      boolVal(row, "declined"),
		DeclineReason: str(row, "decline_reason"),
		DateLabel:     str(row, "date", "booking_date"),
		StartTime:     str(row, "start_time"),
		EndTime:       str(row, "end_time"),
	}
	if court != nil {
		booking.CourtID = str(court, "id")
		booking.CourtName = str(court, "name")
		booking.TurfID = str(court, "turf_id")
	}
	if turf != nil {
		booking.TurfName = str(turf, "name")
		booking.TurfSport = str(turf, "sport")
		if booking.TurfID == "" {
			booking.TurfID = str(turf, "id")
		}
	}

	o := Order{
		ID:             str(row, "id"),
		Type:           OrderTypeTurf,
		TypeLabel:      "Turf",
		CreatedAt:      createdAt,
		CreatedAtLabel: FormatDateTime(createdAt),
		CustomerInfo:   rawMap(row, "customer_details"),
		PaymentID:      booking.PaymentID,
		Payment:        payment,
		Customer:       normalizeCustomerParty(rawMap(row, "user")),
		Partner:        normalizePartnerParty(rawMap(row, "partner")),
		Booking:        &booking,
		Amount:         numOrZero(row, "amount", "total"),
		Currency:       "INR",
	}
	if booking.Declined {
		o.Status = "Declined"
		o.StatusRaw = "declined"
	} else {
		o.Status = "Accepted"
		o.StatusRaw = "accepted"
	}
	if payment != nil {
		if payment.Amount > 0 {
			o.Amount = payment.Amount
		}
		o.Currency = payment.Currency
	}

	b := searchindex.New()
	b.Add(o.ID, o.TypeLabel, o.Status, o.Customer.Name, o.Customer.Email,
		o.Customer.Phone, o.Partner.Name, booking.TurfName, booking.CourtName,
		booking.TurfSport)
	b.AddDate(booking.DateLabel)
	b.AddTimeVariants(booking.StartTime)
	b.AddTimeVariants(booking.EndTime)
	b.AddCurrencyVariants(o.Amount, o.Currency)
	b.AddDate(o.CreatedAt)
	o.SearchIndex = b.String()
	return o
}
