// Package diagnostic collects the findings of a form definition check.
// Every finding carries a stable code, the form and field it concerns and,
// for unknown names, the closest known ones.
package diagnostic
