package utils

import (
	"regexp"
	"strings"
)

var resourceURLPattern = regexp.MustCompile(`https?://\S+`)

// ExtractURL pulls the link out of a resource string such as
// "React Guide - https://react.dev/learn".
func ExtractURL(resource string) string {
	if resource == "" {
		return ""
	}
	if m := resourceURLPattern.FindString(resource); m != "" {
		return m
	}
	if strings.Contains(resource, "http") {
		return resource
	}
	return ""
}

// ExtractTitle returns the part before the first " - ", or the string with
// its URLs removed.
func ExtractTitle(resource string) string {
	if resource == "" {
		return resource
	}
	if title, _, ok := strings.Cut(resource, " - "); ok {
		return title
	}
	if title := strings.TrimSpace(resourceURLPattern.ReplaceAllString(resource, "")); title != "" {
		return title
	}
	return resource
}
