package viewmodel

import (
	"strings"

	"github.com/dest-sports/backoffice/internal/searchindex"
)

// NormalizeCustomer maps a raw customer row to its view model. Missing names
// render as "Unknown"; the enrollment and booking counts unwrap the aggregate
// artifact shape when the row arrives pre-joined.
func NormalizeCustomer(row Raw) Customer {
	createdAt := timeVal(row, "created_at", "createdAt")
	updatedAt := timeVal(row, "updated_at", "updatedAt")
	name := strOr(row, "Unknown", "name", "full_name")

	c := Customer{
		ID:             str(row, "id", "user_id"),
		Name:           name,
		Email:          str(row, "email"),
		Phone:          str(row, "phone", "phone_number", "whatsapp"),
		Gender:         strings.ToLower(str(row, "gender")),
		ProfileImage:   str(row, "profile_image", "avatar", "image"),
		Initials:       initials(name),
		LikedSports:    parseStringList(row["liked_sports"]),
		Pincode:        str(row, "pincode", "pin_code"),
		Enrollments:    extractCount(row["enrollments"]),
		TurfBookings:   extractCount(row["turf_bookings"]),
		JoinedAtLabel:  FormatDate(createdAt),
		UpdatedAtLabel: FormatDateTime(updatedAt),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      timeVal(row, "deleted_at", "deletedAt"),
	}
	if len(c.LikedSports) > 0 {
		c.LikedSportsRaw = strings.Join(c.LikedSports, ", ")
	} else {
		c.LikedSportsRaw = Placeholder
	}

	b := searchindex.New()
	b.Add(c.ID, c.Name, c.Email, c.Phone, c.Gender, c.Pincode)
	b.Add(c.LikedSports)
	b.Add(c.Enrollments, c.TurfBookings)
	b.AddDate(c.CreatedAt)
	c.SearchIndex = b.String()
	return c
}

// NormalizeCustomers maps a raw collection, skipping nothing: a malformed row
// still yields a (mostly empty) view model so siblings are unaffected.
func NormalizeCustomers(rows []Raw) []Customer {
	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeCustomer(row))
	}
	return out
}
