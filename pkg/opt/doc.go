// Package opt is the client-side modeling core: symbolic expressions over
// decision variables, indexed variable and constraint families, objectives,
// abstract sets and parameters, sequenced statements, and the model and
// workspace containers that fix component order.
//
// Nothing in this package solves anything. Models are rendered by the
// generator packages and submitted to a remote engine through pkg/session;
// pkg/solver writes results back onto the entities here.
package opt
