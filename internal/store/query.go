package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Op is a declarative filter operator, the subset the app actually queries with.
type Op string

const (
	OpEq  Op = "=="
	OpNe  Op = "!="
	OpIn  Op = "in"
	OpGte Op = ">="
	OpLte Op = "<="
)

// Constraint is one declarative where/orderBy/limit clause applied to a
// collection read or watch.
type Constraint struct {
	kind  string // "where" | "orderBy" | "limit"
	field string
	op    Op
	value interface{}
	desc  bool
	limit int64
}

// Where filters on field <op> value.
func Where(field string, op Op, value interface{}) Constraint {
	return Constraint{kind: "where", field: field, op: op, value: value}
}

// OrderBy sorts ascending by field.
func OrderBy(field string) Constraint {
	return Constraint{kind: "orderBy", field: field}
}

// OrderByDesc sorts descending by field.
func OrderByDesc(field string) Constraint {
	return Constraint{kind: "orderBy", field: field, desc: true}
}

// Limit caps the result set.
func Limit(n int64) Constraint {
	return Constraint{kind: "limit", limit: n}
}

// compile turns constraints into a Mongo filter plus find options. The tenant
// filter is always present; callers cannot widen a query past its path.
func compile(p Path, cs []Constraint) (bson.M, *options.FindOptions) {
	filter := bson.M{"clientId": p.ClientID}
	opts := options.Find()
	sort := bson.D{}
	for _, c := range cs {
		switch c.kind {
		case "where":
			switch c.op {
			case OpEq:
				filter[c.field] = c.value
			case OpNe:
				filter[c.field] = bson.M{"$ne": c.value}
			case OpIn:
				filter[c.field] = bson.M{"$in": c.value}
			case OpGte:
				filter[c.field] = bson.M{"$gte": c.value}
			case OpLte:
				filter[c.field] = bson.M{"$lte": c.value}
			}
		case "orderBy":
			dir := 1
			if c.desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: c.field, Value: dir})
		case "limit":
			opts.SetLimit(c.limit)
		}
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return filter, opts
}
