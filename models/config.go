package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"SNP_DEBUG"`

	Api struct {
		Url                      string `yaml:"url" envconfig:"SNP_API_URL"`
		Port                     string `yaml:"port" envconfig:"SNP_API_INTERNAL_PORT"`
		AnalysisConcurrencyLevel int    `yaml:"analysisconcurrencylevel" envconfig:"SNP_API_ANALYSIS_CONCURRENCY_LEVEL" default:"4"`
		ComputeStepDelayMillis   int    `yaml:"computestepdelaymillis" envconfig:"SNP_API_COMPUTE_STEP_DELAY_MILLIS" default:"250"`
		RetentionDays            int    `yaml:"retentiondays" envconfig:"SNP_API_RETENTION_DAYS" default:"30"`
	}
	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"SNP_ES_URL"`
		Username string `yaml:"username" envconfig:"SNP_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"SNP_ES_PASSWORD"`
	}
}
