package model

import (
	"encoding/json"
	"fmt"
)

// Storage documents carry the identifier under this key; the client shape
// uses "id". The transformer renames between the two and is otherwise a
// field-preserving mapping in both directions.
const storageIDKey = "_id"

// ToClient maps a stored document to the client-facing Project. Unknown
// fields are dropped, absent image and amenity lists default to empty, and
// progress is resolved through the single derivation rule (timeline phases
// win over the stored scalar).
func ToClient(doc map[string]any) (Project, error) {
	if doc == nil {
		return Project{}, fmt.Errorf("nil document")
	}

	shaped := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == storageIDKey {
			shaped["id"] = v
			continue
		}
		shaped[k] = v
	}

	raw, err := json.Marshal(shaped)
	if err != nil {
		return Project{}, fmt.Errorf("marshal document: %w", err)
	}
	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return Project{}, fmt.Errorf("unmarshal document: %w", err)
	}

	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Amenities == nil {
		p.Amenities = []Amenity{}
	}
	p.Progress = p.EffectiveProgress()

	return p, nil
}

// ToStorage maps a client Project to its stored document: the identifier is
// stripped (the store assigns it) and every other field passes through. It is
// the left inverse of ToClient for all fields it preserves.
func ToStorage(p Project) (map[string]any, error) {
	p.ID = ""

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	delete(doc, "id")
	return doc, nil
}
