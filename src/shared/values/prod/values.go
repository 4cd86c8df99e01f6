package prod

// DynamoDB
const (
	DynamoDBRegion = "us-east-1"
)
