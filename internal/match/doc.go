// Package match scores how well one name or type stands in for another.
// Form definitions and property lookups use it to answer "did you mean"
// for names that are close to a known one.
//
// Names are compared after NormalizeIdent, so "fullName", "full_name" and
// "FullName" agree. When both sides carry a reflect.Type the score also
// weighs ScoreTypeCompatibility.
package match
