// Package q2b converts Quicken Interchange Format exports into a
// double-entry Beancount ledger.
//
// A Book holds the securities, the accounts and the normalized
// transactions of one export. Loading a qif.File registers every
// category and account, collects security prices, and normalizes each
// record; Post then turns the records into balanced postings in three
// phases (investment trades, split payments, simple transfers) so that
// the two legs of a cross-account transfer can find each other and
// collapse into a single transaction. EncodeBeancount writes the
// resulting ledger.
package q2b
