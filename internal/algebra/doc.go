// Package algebra provides the three type-parameter contracts shared by
// every layer, batch, trace, and operator in flowcore: Time (a partial
// order with meet/join and scope stepping), Weight (the abelian group a
// diff column sums over), and Antichain (a minimal set of incomparable
// times used as a batch's lower/upper bound or a trace's frontier).
//
// Nothing here is specific to storage layout; it is the algebra the rest
// of the engine is generic over, grounded on spec.md §3 "Data model".
package algebra
