// Package registry holds the ordered panels of the active image together
// with the region markers that render them.
//
// Each committed panel has exactly one Marker. The marker's Index is the
// panel's position in the registry, and it is rewritten after every removal
// so that lookups by index never see gaps.
package registry
