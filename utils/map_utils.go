package utils

import (
	"cmp"
	"sort"
)

func CloneMap[K comparable, V any](m map[K]V) map[K]V {
	cloneM := make(map[K]V, len(m))
	for k, v := range m {
		cloneM[k] = v
	}
	return cloneM
}

func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// UniqueSlice returns a copy of a without duplicates, keeping first occurrences in order.
func UniqueSlice[K comparable](a []K) []K {
	m := make(map[K]bool, len(a))
	unique := make([]K, 0, len(a))
	for _, v := range a {
		if m[v] {
			continue
		}
		m[v] = true
		unique = append(unique, v)
	}
	return unique
}
