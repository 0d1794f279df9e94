package graph

// Cypher query constants for Neo4j operations.
const (
	// CreateConstraintSymbolID ensures Symbol(id) is unique and indexed (required for fast MERGE/MATCH).
	CreateConstraintSymbolID = `CREATE CONSTRAINT symbol_id IF NOT EXISTS FOR (s:Symbol) REQUIRE s.id IS UNIQUE`
	// CreateConstraintModuleID ensures Module(id) is unique and indexed (required for fast MERGE/MATCH).
	CreateConstraintModuleID = `CREATE CONSTRAINT module_id IF NOT EXISTS FOR (m:Module) REQUIRE m.id IS UNIQUE`

	// UpsertSymbolNode merges a symbol node by its ID and sets all properties.
	UpsertSymbolNode = `
UNWIND $symbols AS sym
MERGE (s:Symbol {id: sym.id})
SET s.name = sym.name,
    s.file = sym.file,
    s.kind = sym.kind,
    s.projectId = sym.projectId,
    s.moduleId = sym.moduleId
`

	// UpsertModuleNode merges a module (file) node by its ID.
	UpsertModuleNode = `
UNWIND $modules AS mod
MERGE (m:Module {id: mod.id})
SET m.path = mod.path,
    m.projectId = mod.projectId
`

	// LinkSymbolToModule creates DECLARED_IN relationships between symbols and their modules.
	LinkSymbolToModule = `
UNWIND $symbols AS sym
MATCH (s:Symbol {id: sym.id})
MATCH (m:Module {id: sym.moduleId})
MERGE (s)-[:DECLARED_IN]->(m)
`

	// UpsertAliasEdge merges ALIAS_OF relationships from re-exporting symbols
	// to the symbols they redirect to.
	UpsertAliasEdge = `
UNWIND $edges AS edge
MATCH (src:Symbol {id: edge.sourceId})
MATCH (tgt:Symbol {id: edge.targetId})
MERGE (src)-[r:ALIAS_OF]->(tgt)
SET r.projectId = edge.projectId
`

	// AliasChain follows ALIAS_OF redirects from a symbol to the symbols it
	// resolves through, nearest first. The depth bound is formatted in.
	AliasChain = `
MATCH (s:Symbol {id: $symbolId})-[:ALIAS_OF*1..%d]->(target:Symbol)
RETURN DISTINCT target.id AS id, target.file AS file, target.name AS name
`

	// DeleteProjectNodes removes all nodes and relationships for a project.
	DeleteProjectNodes = `
MATCH (n {projectId: $projectId})
DETACH DELETE n
`
)
