package db

import "go.mongodb.org/mongo-driver/bson"

// IDString renders a document identifier: ObjectIDs as hex, strings as-is.
func IDString(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	if v.Type == 0 {
		return ""
	}
	return v.String()
}
