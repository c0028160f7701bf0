/*
Package domain holds the core types of Armature: block instances and the
definition vocabulary, programs, parameter coercion helpers, run outcomes,
the three run-time fault sentinels, and lifecycle hook definitions.

It has no dependencies on the runtime or on any adapter, so every layer of
the module (and host applications) can share these types freely.
*/
package domain
