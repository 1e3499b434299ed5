package chunk

import "go.mongodb.org/mongo-driver/bson"

// ScanBson 生成 MongoDB 查询的 BSON 过滤器，与 WhereSQL 的条件一致
func ScanBson(chunk *Chunk, extra bson.M) bson.M {
	query := bson.M{}
	for _, bound := range chunk.Bounds {
		if bound.equal() {
			query[bound.Column] = bound.Lower
			continue
		}
		rangeQuery := bson.M{}
		if bound.HasLower {
			rangeQuery["$gte"] = bound.Lower
		}
		if bound.HasUpper {
			rangeQuery["$lt"] = bound.Upper
		}
		if len(rangeQuery) > 0 {
			query[bound.Column] = rangeQuery
		}
	}

	// 如果有额外的过滤条件，需要与生成的查询合并
	switch {
	case len(extra) == 0:
		return query
	case len(query) == 0:
		return extra
	}
	return bson.M{"$and": []bson.M{query, extra}}
}
