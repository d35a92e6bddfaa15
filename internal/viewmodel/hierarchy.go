package viewmodel

// Deny-lists for metadata extraction: keys already mapped to first-class
// fields never reappear under Metadata.
var (
	courseOwnedKeys = []string{
		"id", "partner_id", "name", "slug", "sport", "level", "description",
		"price", "fees", "currency", "duration", "sessions", "active",
		"is_active", "start_date", "end_date", "created_at", "updated_at",
		"batches", "students",
	}
	batchOwnedKeys = []string{
		"id", "course_id", "name", "schedule", "capacity", "description",
		"note", "days", "active", "is_active", "starts_at", "ends_at",
		"start_date", "end_date", "created_at", "updated_at", "batch_plans",
		"plans",
	}
	planOwnedKeys = []string{
		"id", "batch_id", "name", "duration", "fees", "price", "currency",
		"sessions", "frequency", "description", "start_date", "end_date",
		"active", "is_active", "created_at", "updated_at", "students",
		"enrollments",
	}
	turfOwnedKeys = []string{
		"id", "partner_id", "name", "sport", "city", "state", "address",
		"active", "is_active", "created_at", "updated_at", "turf_courts",
		"courts",
	}
	courtOwnedKeys = []string{
		"id", "turf_id", "name", "sport", "surface", "indoor", "pricing",
		"price", "active", "is_active", "created_at", "updated_at",
		"turf_bookings", "bookings",
	}
)

// NormalizeCourse maps a raw course row. Counts default to zero; the
// aggregator injects them after walking the hierarchy.
func NormalizeCourse(row Raw) Course {
	return Course{
		ID:          str(row, "id"),
		Name:        strOr(row, "Untitled course", "name", "title"),
		Slug:        str(row, "slug"),
		Sport:       str(row, "sport"),
		Level:       str(row, "level"),
		Description: str(row, "description"),
		Price:       numPtr(row, "price"),
		Fees:        numPtr(row, "fees"),
		Currency:    strOr(row, "INR", "currency"),
		Duration:    str(row, "duration"),
		Sessions:    numPtr(row, "sessions"),
		Active:      activeVal(row, "active", "is_active"),
		StartDate:   timeVal(row, "start_date"),
		EndDate:     timeVal(row, "end_date"),
		CreatedAt:   timeVal(row, "created_at"),
		UpdatedAt:   timeVal(row, "updated_at"),
		Metadata:    metadata(row, courseOwnedKeys...),
	}
}

// NormalizeBatch maps a raw batch row.
func NormalizeBatch(row Raw) Batch {
	return Batch{
		ID:          str(row, "id"),
		Name:        strOr(row, "Untitled batch", "name", "title"),
		Schedule:    str(row, "schedule", "timing"),
		Capacity:    numPtr(row, "capacity"),
		Description: str(row, "description"),
		Note:        str(row, "note"),
		Days:        str(row, "days"),
		Active:      activeVal(row, "active", "is_active"),
		StartsAt:    timeVal(row, "starts_at", "start_date"),
		EndsAt:      timeVal(row, "ends_at", "end_date"),
		CreatedAt:   timeVal(row, "created_at"),
		UpdatedAt:   timeVal(row, "updated_at"),
		Metadata:    metadata(row, batchOwnedKeys...),
	}
}

// NormalizePlan maps a raw plan row. The embedded students artifact is
// unwrapped into BookingCount for pre-joined rows; the aggregator overwrites
// it when a flat enrollment collection is supplied.
func NormalizePlan(row Raw) Plan {
	return Plan{
		ID:           str(row, "id"),
		Name:         strOr(row, "Untitled plan", "name", "title"),
		Duration:     str(row, "duration"),
		Fees:         numPtr(row, "fees"),
		Price:        numPtr(row, "price"),
		Currency:     strOr(row, "INR", "currency"),
		Sessions:     numPtr(row, "sessions"),
		Frequency:    str(row, "frequency"),
		Description:  str(row, "description"),
		StartDate:    timeVal(row, "start_date"),
		EndDate:      timeVal(row, "end_date"),
		Active:       activeVal(row, "active", "is_active"),
		BookingCount: extractCount(row["students"]),
		CreatedAt:    timeVal(row, "created_at"),
		UpdatedAt:    timeVal(row, "updated_at"),
		Metadata:     metadata(row, planOwnedKeys...),
	}
}

// NormalizeTurf maps a raw turf row.
func NormalizeTurf(row Raw) Turf {
	t := Turf{
		ID:        str(row, "id"),
		Name:      strOr(row, "Untitled turf", "name", "title"),
		Sport:     str(row, "sport"),
		Active:    activeVal(row, "active", "is_active"),
		CreatedAt: timeVal(row, "created_at"),
		UpdatedAt: timeVal(row, "updated_at"),
		Metadata:  metadata(row, turfOwnedKeys...),
	}
	if address := normalizeAddress(rawMap(row, "address")); address != nil {
		t.City = address.City
		t.State = address.State
		t.AddressText = flattenAddress(address)
	} else {
		t.City = str(row, "city")
		t.State = str(row, "state")
		t.AddressText = Placeholder
	}
	return t
}

// NormalizeCourt maps a raw court row.
func NormalizeCourt(row Raw) Court {
	return Court{
		ID:        str(row, "id"),
		Name:      strOr(row, "Untitled court", "name", "title"),
		Sport:     str(row, "sport"),
		Surface:   str(row, "surface"),
		Indoor:    boolPtr(row, "indoor"),
		Pricing:   numPtr(row, "pricing", "price"),
		Active:    activeVal(row, "active", "is_active"),
		CreatedAt: timeVal(row, "created_at"),
		UpdatedAt: timeVal(row, "updated_at"),
		Metadata:  metadata(row, courtOwnedKeys...),
	}
}
