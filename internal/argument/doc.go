// Package argument builds and parses the arguments agents exchange about an
// item.
//
// An Argument pairs an item and a decision (for or against) with premises.
// Value premises cite the item's rating on a criterion; comparison premises
// claim one criterion matters more than another to the speaker. Comparisons
// are always judged against the constructing agent's own profile.
//
// BestSupport and BestRebuttal never return a value premise already recorded
// in the caller's PremiseSet, so each sub-dialogue about an item makes
// progress and ends after finitely many exchanges.
package argument
