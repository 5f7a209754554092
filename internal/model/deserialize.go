package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Payload keys understood by Deserialize.
const (
	FieldProductID          = "product_id"
	FieldRecommendedID      = "recommended_id"
	FieldRecommendationType = "recommendation_type"
	FieldStatus             = "status"
	FieldLike               = "like"
	FieldDislike            = "dislike"
	FieldLastUpdated        = "last_updated"
)

// requiredFields must all be present in ModeStrict, in this order.
var requiredFields = []string{FieldProductID, FieldRecommendedID, FieldRecommendationType, FieldStatus}

// ValidationError reports a payload or field that violates a Recommendation invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Mode selects how Deserialize treats absent keys.
type Mode int

const (
	// ModeStrict requires product_id, recommended_id, recommendation_type and status.
	ModeStrict Mode = iota
	// ModePartial validates and applies only the keys that are present.
	ModePartial
)

// Deserialize applies a decoded JSON payload to r.
//
// Every supplied field is validated against a scratch copy first; r is only
// modified when the whole payload is acceptable. like and dislike are optional
// in both modes. last_updated, when present, replaces the concurrency token
// the caller will present on the next update. id and created_at are ignored.
func (r *Recommendation) Deserialize(data any, mode Mode) error {
	payload, ok := data.(map[string]any)
	if !ok {
		return invalidf("", "Invalid recommendation: body of request contained bad or no data")
	}

	if mode == ModeStrict {
		for _, f := range requiredFields {
			if _, present := payload[f]; !present {
				return invalidf(f, "Invalid recommendation: missing %s", f)
			}
		}
	}

	next := *r

	if v, ok := payload[FieldProductID]; ok {
		n, err := integerField(FieldProductID, v)
		if err != nil {
			return err
		}
		if err := next.SetProductID(n); err != nil {
			return err
		}
	}
	if v, ok := payload[FieldRecommendedID]; ok {
		n, err := integerField(FieldRecommendedID, v)
		if err != nil {
			return err
		}
		if err := next.SetRecommendedID(n); err != nil {
			return err
		}
	}
	if v, ok := payload[FieldRecommendationType]; ok {
		s, _ := v.(string)
		if err := next.SetType(RecommendationType(s)); err != nil {
			return err
		}
	}
	if v, ok := payload[FieldStatus]; ok {
		s, _ := v.(string)
		if err := next.SetStatus(Status(s)); err != nil {
			return err
		}
	}
	if v, ok := payload[FieldLike]; ok && v != nil {
		n, err := counterField(FieldLike, v)
		if err != nil {
			return err
		}
		if err := next.SetLike(n); err != nil {
			return err
		}
	}
	if v, ok := payload[FieldDislike]; ok && v != nil {
		n, err := counterField(FieldDislike, v)
		if err != nil {
			return err
		}
		if err := next.SetDislike(n); err != nil {
			return err
		}
	}
	if v, ok := payload[FieldLastUpdated]; ok && v != nil {
		s, isString := v.(string)
		ts, err := time.Parse(time.RFC3339Nano, s)
		if !isString || err != nil {
			return invalidf(FieldLastUpdated, "Invalid last_updated: must be an RFC 3339 timestamp")
		}
		next.LastUpdated = ts
	}

	*r = next
	return nil
}

// integerField accepts the shapes encoding/json produces for an integral number.
func integerField(field string, v any) (int64, error) {
	notInt := invalidf(field, "Invalid %s: must be an integer", field)
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, notInt
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, notInt
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	default:
		return 0, notInt
	}
}

func counterField(field string, v any) (int, error) {
	n, err := integerField(field, v)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, invalidf(field, "Invalid %s: out of range", field)
	}
	return int(n), nil
}
