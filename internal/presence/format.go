package presence

import (
	"fmt"
	"sort"
	"strings"
)

// fieldLabels maps field keys to the labels shown in editing indicators.
// Unknown keys fall back to the raw key.
var fieldLabels = map[string]string{
	"name":        "name",
	"notes":       "notes",
	"description": "description",
	"shootDates":  "shoot dates",
	"status":      "status",
	"title":       "title",
	"focalPoint":  "focal point",
	"talentIds":   "talent",
	"productIds":  "products",
	"items":       "items",
	"address":     "address",
}

func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// FormatFields joins field labels for display. Two fields read "A and B",
// three or more get an Oxford comma.
func FormatFields(fields []string) string {
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		labels = append(labels, FieldLabel(f))
	}
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + ", and " + labels[len(labels)-1]
	}
}

// FormatEditors builds the indicator sentence for a set of active editors.
// Editors are grouped by user; the single-editor form names the fields, the
// multi-editor forms do not.
func FormatEditors(editors []Editor) string {
	if len(editors) == 0 {
		return ""
	}

	byUser := map[string][]string{}
	names := map[string]string{}
	var order []string
	for _, ed := range editors {
		if _, ok := byUser[ed.UserSub]; !ok {
			order = append(order, ed.UserSub)
		}
		byUser[ed.UserSub] = append(byUser[ed.UserSub], ed.Field)
		names[ed.UserSub] = ed.UserName
	}

	switch len(order) {
	case 1:
		sub := order[0]
		fields := byUser[sub]
		sort.Strings(fields)
		return fmt.Sprintf("%s is editing %s", names[sub], FormatFields(fields))
	case 2:
		return fmt.Sprintf("%s and %s are editing", names[order[0]], names[order[1]])
	default:
		return fmt.Sprintf("%s and %d others are editing", names[order[0]], len(order)-1)
	}
}
