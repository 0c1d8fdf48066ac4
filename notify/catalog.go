package notify

import (
	"sort"

	"github.com/mbolis/work-requests/model"
	"github.com/mbolis/work-requests/payload"
	"github.com/mbolis/work-requests/wizard"
)

// RecentEntryLimit bounds how many historical entries the catalog scans.
const RecentEntryLimit = 50

// Catalog lists the placeholders an admin can use in templates of form.
// Samples from recent entries replace the illustrative ones.
func Catalog(form model.Form, recent []model.Entry, primarySlug string) []model.PlaceholderEntry {
	list := payload.Pairs{
		{Key: "entry.id", Value: "123"},
		{Key: "entry.reference", Value: "6f1f0d3a-2b7c-4c1e-9a55-0c3f5b8e9d21"},
		{Key: "entry.first_name", Value: "Jane"},
		{Key: "entry.last_name", Value: "Doe"},
		{Key: "entry.full_name", Value: "Jane Doe"},
		{Key: "entry.email", Value: "jane.doe@example.org"},
		{Key: "entry.cellphone", Value: "+27 82 123 4567"},
		{Key: "entry.congregation", Value: "JG North"},
		{Key: "entry.event_name", Value: "Youth Camp"},
		{Key: "entry.request_types", Value: "Event logistics, Digital media"},
		{Key: "entry.subject", Value: "Work request: Youth Camp (Event logistics, Digital media)"},
		{Key: "entry.created_at", Value: "2026-01-15 09:30:00"},
		{Key: "entry.updated_at", Value: "2026-01-15 09:30:00"},
		{Key: "form.name", Value: form.Name},
		{Key: "form.slug", Value: form.Slug},
	}

	if form.Slug == primarySlug {
		fields := wizard.FieldKeys()
		schema := make(payload.Pairs, len(fields))
		for i, field := range fields {
			schema[i] = payload.Pair{Key: "payload." + field, Value: schemaSamples[field]}
		}
		list.Merge(schema)
	}

	if len(recent) > RecentEntryLimit {
		recent = recent[:RecentEntryLimit]
	}
	firstSeen := payload.Pairs{}
	seen := map[string]bool{}
	for _, entry := range recent {
		for _, pair := range payload.Flatten(entry.Payload, "payload") {
			if seen[pair.Key] {
				continue
			}
			seen[pair.Key] = true
			firstSeen = append(firstSeen, pair)
		}
	}
	list.Merge(firstSeen)

	sort.SliceStable(list, func(i, j int) bool { return list[i].Key < list[j].Key })

	out := make([]model.PlaceholderEntry, len(list))
	for i, pair := range list {
		out[i] = model.PlaceholderEntry{Key: pair.Key, Sample: pair.Value}
	}
	return out
}
