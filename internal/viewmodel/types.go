// Package viewmodel converts loosely-typed backend rows into the strict,
// UI-stable shapes the panel renders. Every normalizer is a total function:
// malformed input degrades to documented defaults, never to a panic, and a
// bad record never affects its siblings.
package viewmodel

import "time"

// Customer is the normalized view of a marketplace customer row.
type Customer struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Gender         string     `json:"gender"`
	ProfileImage   string     `json:"profileImage"`
	Initials       string     `json:"initials"`
	LikedSports    []string   `json:"likedSports"`
	LikedSportsRaw string     `json:"likedSportsRaw"`
	Pincode        string     `json:"pincode"`
	Enrollments    int        `json:"enrollments"`
	TurfBookings   int        `json:"turfBookings"`
	JoinedAtLabel  string     `json:"joinedAt"`
	UpdatedAtLabel string     `json:"updatedAtLabel"`
	CreatedAt      *time.Time `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
	DeletedAt      *time.Time `json:"deletedAt"`
	SearchIndex    string     `json:"__searchIndex"`
}

// Address is the structured partner address. All fields are optional.
type Address struct {
	Street  string `json:"street"`
	Area    string `json:"area"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	MapLink string `json:"mapLink"`
}

// GalleryItem is a single partner gallery entry with a resolved media type
// and playable source URL.
type GalleryItem struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "image" or "video"
	Title string `json:"title"`
	Src   string `json:"src"`
}

// Partner statuses, derived from the verified/disabled flag pair.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Partner roles. Unknown roles default to RoleAcademy.
const (
	RoleAcademy = "academy"
	RoleGym     = "gym"
	RoleTurf    = "turf"
)

// Partner is the normalized view of a partner row.
type Partner struct {
	ID               string        `json:"id"`
	Slug             string        `json:"slug"`
	Name             string        `json:"name"`
	PublicID         string        `json:"publicId"`
	Email            string        `json:"email"`
	Whatsapp         string        `json:"whatsapp"`
	Role             string        `json:"role"`
	Status           string        `json:"status"`
	City             string        `json:"city"`
	State            string        `json:"state"`
	Pincode          string        `json:"pincode"`
	Verified         bool          `json:"verified"`
	Disabled         bool          `json:"disabled"`
	WhatsappVerified bool          `json:"whatsappVerified"`
	Address          *Address      `json:"address"`
	AddressText      string        `json:"addressText"`
	MapLink          string        `json:"mapLink"`
	About            string        `json:"about"`
	SportsRaw        string        `json:"sportsRaw"`
	Logo             string        `json:"logo"`
	Sports           []string      `json:"sports"`
	Gallery          []GalleryItem `json:"gallery"`
	JoinedAtLabel    string        `json:"joinedAt"`
	LastActiveLabel  string        `json:"lastActive"`
	CreatedAt        *time.Time    `json:"createdAt"`
	UpdatedAt        *time.Time    `json:"updatedAt"`
	SearchIndex      string        `json:"__searchIndex"`
}

// Coach is a partner-attached tutor/coach.
type Coach struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Sport     string     `json:"sport"`
	Bio       string     `json:"bio"`
	Avatar    string     `json:"avatar"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Plan is the leaf of the academy containment hierarchy. BookingCount is
// injected by the aggregator; the embedded count artifact is used only when
// the row arrives pre-joined.
type Plan struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Duration     string         `json:"duration"`
	Fees         *float64       `json:"fees"`
	Price        *float64       `json:"price"`
	Currency     string         `json:"currency"`
	Sessions     *float64       `json:"sessions"`
	Frequency    string         `json:"frequency"`
	Description  string         `json:"description"`
	StartDate    *time.Time     `json:"startDate"`
	EndDate      *time.Time     `json:"endDate"`
	Active       bool           `json:"active"`
	BookingCount int            `json:"bookingCount"`
	CreatedAt    *time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time     `json:"updatedAt"`
	Metadata     map[string]any `json:"metadata"`
}

// Batch groups plans under a course.
type Batch struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Schedule     string         `json:"schedule"`
	Capacity     *float64       `json:"capacity"`
	Description  string         `json:"description"`
	Note         string         `json:"note"`
	Days         string         `json:"days"`
	Active       bool           `json:"active"`
	StartsAt     *time.Time     `json:"startsAt"`
	EndsAt       *time.Time     `json:"endsAt"`
	CreatedAt    *time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time     `json:"updatedAt"`
	PlanCount    int            `json:"planCount"`
	BookingCount int            `json:"bookingCount"`
	Plans        []Plan         `json:"plans"`
	Metadata     map[string]any `json:"metadata"`
}

// Course is the root of the academy/gym hierarchy.
type Course struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Sport        string         `json:"sport"`
	Level        string         `json:"level"`
	Description  string         `json:"description"`
	Price        *float64       `json:"price"`
	Fees         *float64       `json:"fees"`
	Currency     string         `json:"currency"`
	Duration     string         `json:"duration"`
	Sessions     *float64       `json:"sessions"`
	Active       bool           `json:"active"`
	StartDate    *time.Time     `json:"startDate"`
	EndDate      *time.Time     `json:"endDate"`
	CreatedAt    *time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time     `json:"updatedAt"`
	BatchCount   int            `json:"batchCount"`
	PlanCount    int            `json:"planCount"`
	BookingCount int            `json:"bookingCount"`
	Batches      []Batch        `json:"batches"`
	Metadata     map[string]any `json:"metadata"`
}

// Court is a bookable unit inside a turf.
type Court struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Sport        string         `json:"sport"`
	Surface      string         `json:"surface"`
	Indoor       *bool          `json:"indoor"`
	Pricing      *float64       `json:"pricing"`
	Active       bool           `json:"active"`
	BookingCount int            `json:"bookingCount"`
	CreatedAt    *time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time     `json:"updatedAt"`
	Metadata     map[string]any `json:"metadata"`
}

// Turf is the root of the turf hierarchy.
type Turf struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Sport        string         `json:"sport"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	AddressText  string         `json:"addressText"`
	Courts       []Court        `json:"courts"`
	CourtCount   int            `json:"courtCount"`
	BookingCount int            `json:"bookingCount"`
	Active       bool           `json:"active"`
	CreatedAt    *time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time     `json:"updatedAt"`
	Metadata     map[string]any `json:"metadata"`
}

// PartnerMetrics is the roll-up totals block on a partner detail view.
type PartnerMetrics struct {
	Coaches        int `json:"coaches"`
	Courses        int `json:"courses"`
	Turfs          int `json:"turfs"`
	Gallery        int `json:"gallery"`
	Sports         int `json:"sports"`
	CourseBatches  int `json:"courseBatches"`
	CoursePlans    int `json:"coursePlans"`
	CourseBookings int `json:"courseBookings"`
	TurfCourts     int `json:"turfCourts"`
	TurfBookings   int `json:"turfBookings"`
}

// PartnerDetail is a partner with its full containment hierarchy attached.
type PartnerDetail struct {
	Partner
	Coaches []Coach        `json:"coaches"`
	Courses []Course       `json:"courses"`
	Turfs   []Turf         `json:"turfs"`
	Metrics PartnerMetrics `json:"metrics"`
}

// Payment is a normalized payment row joined onto an order by id.
type Payment struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	RazorpayOrderID   string     `json:"razorpayOrderId"`
	RazorpayPaymentID string     `json:"razorpayPaymentId"`
	UserID            string     `json:"userId"`
	CreatedAt         *time.Time `json:"createdAt"`
	CreatedAtLabel    string     `json:"createdAtLabel"`
}

// Order types.
const (
	OrderTypeCourse = "course"
	OrderTypeTurf   = "turf"
)

// OrderParty identifies the customer or partner side of an order.
type OrderParty struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// OrderPlan carries the course-side detail of a course order.
type OrderPlan struct {
	ID         string  `json:"id"`
	CourseID   string  `json:"courseId"`
	BatchID    string  `json:"batchId"`
	Duration   string  `json:"duration"`
	Fees       float64 `json:"fees"`
	BatchName  string  `json:"batchName"`
	CourseName string  `json:"courseName"`
	Sport      string  `json:"sport"`
	Schedule   string  `json:"schedule"`
}

// OrderBooking carries the turf-side detail of a turf order.
type OrderBooking struct {
	PaymentID     string `json:"paymentId"`
	Declined      bool   `json:"declined"`
	DeclineReason string `json:"declineReason"`
	DateLabel     string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	CourtID       string `json:"courtId"`
	CourtName     string `json:"courtName"`
	TurfID        string `json:"turfId"`
	TurfName      string `json:"turfName"`
	TurfSport     string `json:"turfSport"`
}

// Order is the unified view over the two disjoint order sources. Exactly one
// of Plan or Booking is set, matching the order's Type.
type Order struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	TypeLabel      string         `json:"typeLabel"`
	Status         string         `json:"status"`
	StatusRaw      string         `json:"statusRaw"`
	CreatedAt      *time.Time     `json:"createdAt"`
	CreatedAtLabel string         `json:"createdAtLabel"`
	Amount         float64        `json:"amount"`
	Currency       string         `json:"currency"`
	CustomerInfo   map[string]any `json:"customerDetails"`
	PaymentID      string         `json:"paymentId"`
	Payment        *Payment       `json:"payment"`
	Customer       OrderParty     `json:"customer"`
	Partner        OrderParty     `json:"partner"`
	Plan           *OrderPlan     `json:"plan"`
	Booking        *OrderBooking  `json:"booking"`
	SearchIndex    string         `json:"__searchIndex"`
}

// Totals is the count/amount roll-up for a money-bearing collection.
type Totals struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Support audiences.
const (
	AudiencePartner  = "partner"
	AudienceCustomer = "customer"
)

// SupportRequest is the normalized view of a support ticket, polymorphic over
// the partner and customer queues.
type SupportRequest struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	TypeLabel      string     `json:"typeLabel"`
	EntityID       string     `json:"entityId"`
	EntityPublicID string     `json:"entityPublicId"`
	EntityName     string     `json:"entityName"`
	EntityEmail    string     `json:"entityEmail"`
	EntityPhone    string     `json:"entityPhone"`
	Request        string     `json:"request"`
	Description    string     `json:"description"`
	Screenshot     string     `json:"screenshot"`
	Solution       string     `json:"solution"`
	Resolved       bool       `json:"resolved"`
	CreatedAt      *time.Time `json:"createdAt"`
	CreatedAtLabel string     `json:"createdAtLabel"`
	UpdatedAt      *time.Time `json:"updatedAt"`
	UpdatedAtLabel string     `json:"updatedAtLabel"`
	SearchIndex    string     `json:"__searchIndex"`
}
