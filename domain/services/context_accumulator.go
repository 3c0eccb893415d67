package services

import (
	"strings"

	"skilltree/domain/core/valueobjects"
)

// BuildContext joins the profile summary with every node label in
// insertion order: "<previousData>, <label1>, <label2>, ...".
func BuildContext(profile valueobjects.Profile, labels []string) string {
	return profile.PreviousData() + ", " + strings.Join(labels, ", ")
}
