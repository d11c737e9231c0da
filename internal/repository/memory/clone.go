// Package memory holds in-process repository implementations. They store the
// same BSON documents the Mongo repositories would, which keeps encoding
// behaviour identical, and are used by tests and by the "memory" database driver.
package memory

import (
	"bytes"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// clone deep-copies src into dst through a BSON round trip.
func clone(src, dst interface{}) error {
	raw, err := bson.Marshal(src)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, dst)
}

// sortedIDs returns the keys of m in ObjectID order, which is creation order
// for ids generated by this process.
func sortedIDs[T any](m map[primitive.ObjectID]T) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
