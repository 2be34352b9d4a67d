package ledgerviews

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoTopic labels the group of rows whose member has no usable topic.
const NoTopic = "No Topic"

// TopicGroup is one bucket of the grouped list view.
type TopicGroup struct {
	GroupLabel string              `json:"groupLabel"`
	TopicID    *primitive.ObjectID `json:"topicId,omitempty"`
	Members    []AssignedMember    `json:"members"`
}

// GroupByTopic buckets rows by their member's topic and labels each bucket
// with the topic name. Topics sharing a name under different sections stay
// apart. Groups appear in the order their first row appears, and rows keep
// their input order within a group. Rows with a missing member, topic, or
// blank topic name fall into the NoTopic group.
func GroupByTopic(rows []AssignedMember) []TopicGroup {
	groups := []TopicGroup{}
	index := make(map[primitive.ObjectID]int) // NilObjectID is NoTopic

	for _, r := range rows {
		label := NoTopic
		var topicID *primitive.ObjectID
		if r.Member != nil && r.Member.Topic != nil {
			if name := strings.TrimSpace(r.Member.Topic.Name); name != "" {
				label = name
				id := r.Member.Topic.ID
				topicID = &id
			}
		}

		key := primitive.NilObjectID
		if topicID != nil {
			key = *topicID
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TopicGroup{GroupLabel: label, TopicID: topicID})
		}
		groups[i].Members = append(groups[i].Members, r)
	}
	return groups
}
