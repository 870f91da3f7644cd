// Package queue carries job messages between submitters and workers over a
// Redis list. Producers LPUSH encoded messages onto a configured topic and
// workers BRPOP them with a bounded block so shutdown remains prompt.
package queue
