// Package authorize decides what a resolved identity may do. Independent
// voters (role, ownership, policy) each return Allow, Deny, or Abstain for an
// attribute/subject pair, and an Authorizer reduces the collected votes under
// a configurable decision strategy. The policy voter is backed by a
// PolicyLoader aggregating declarative, file, and database sources behind an
// invalidatable cache.
//
// The engine fails closed: when every voter abstains the default verdict is
// Deny unless explicitly configured otherwise, and a broken policy store
// reads as an abstention, never an allowance.
package authorize
