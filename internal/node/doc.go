// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package node is the node store underneath the persistent values in
// package data. Map is a 32-way hash array mapped trie keyed by strings
// and Seq is a 32-way radix trie with a tail buffer. Every update copies
// only the nodes on the path from the root to the changed slot, all other
// nodes are shared with the input.
//
// Nodes are stamped with the *Edit token of the transient that created
// them. A transient may mutate, in place, only the nodes carrying its own
// open token; once AsPersistent closes the token every node it stamped is
// frozen and can never be written again. Nodes built by the persistent
// operations carry no token and are frozen from birth.
package node
