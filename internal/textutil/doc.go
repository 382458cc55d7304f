// Package textutil provides the string normalization shared by the alias
// resolver, the tag statistics reports and the trip detector.
//
// Case folding goes through golang.org/x/text so that tags such as "DOGS",
// "Dogs" and "dogs" collapse to one key regardless of script.
package textutil
