package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Concept(subject_id);",
	"CREATE INDEX ON :Concept(id);",
	"CREATE INDEX ON :Concept(label);",
}

const (
	DeleteSubjectGraphQuery = `
		MATCH (n:Concept {subject_id: $subject_id})
		DETACH DELETE n
	`

	SaveConceptsQuery = `
		UNWIND $nodes AS node
		MERGE (n:Concept {subject_id: $subject_id, id: node.id})
		SET n.label = node.label,
			n.level = node.level,
			n.description = node.description,
			n.general_knowledge = node.general_knowledge,
			n.importance = node.importance
		RETURN count(n) AS saved
	`

	SaveRelationsQuery = `
		UNWIND $links AS link
		MATCH (source:Concept {subject_id: $subject_id, id: link.source})
		MATCH (target:Concept {subject_id: $subject_id, id: link.target})
		MERGE (source)-[r:RELATES_TO {relationship: link.relationship}]->(target)
		RETURN count(r) AS saved
	`

	SaveChildrenQuery = `
		UNWIND $children AS edge
		MATCH (parent:Concept {subject_id: $subject_id, id: edge.parent})
		MATCH (child:Concept {subject_id: $subject_id, id: edge.child})
		MERGE (child)-[r:CHILD_OF]->(parent)
		RETURN count(r) AS saved
	`

	FindConceptQuery = `
		MATCH (n:Concept)
		WHERE toLower(n.label) CONTAINS toLower($label)
		RETURN DISTINCT n.subject_id AS subject_id, n.id AS id, n.label AS label
		ORDER BY n.importance DESC
		LIMIT $limit
	`
)
